// annotations.go defines the @oxy: annotations understood by the WGSL pre-processor. Annotations
// are single-line WGSL comments that inject shared struct definitions and declare which host
// resource owns a bind group, so the quad shaders never restate the camera uniform by hand.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct at the annotation
	// site. It is consumed entirely during pre-processing.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration for a
	// registered struct and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct_type>
	//
	// Example: //@oxy:group 1 0 storage_uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records which host resource owns a hand-written binding, such as a
	// texture or sampler, without generating any WGSL.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 0 0 texture diffuse_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type
	//   - group:    [0] = address space, [1] = var name, [2] = struct type
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line of the annotation.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include.
	Binding *int
}

// Provider returns the host resource that owns the declared binding: the struct type of a group
// annotation or the identity of a provider annotation. Include annotations have no provider.
//
// Returns:
//   - AnnotationArg: the provider identity, or "" for include annotations
func (a Annotation) Provider() AnnotationArg {
	switch a.Type {
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	case AnnotationTypeProvider:
		return a.Args[0]
	default:
		return ""
	}
}

// AnnotationArg is a typed argument of an annotation.
type AnnotationArg string

// Struct types, usable in include and group annotations.
const (
	// AnnotationArgCamera identifies the CameraUniform struct (camera.GPUCameraUniformSource).
	AnnotationArgCamera AnnotationArg = "camera"
)

// Address spaces of group annotations.
const (
	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// Provider identities of provider annotations.
const (
	// AnnotationArgTexture identifies the texture resource (texture view and sampler).
	AnnotationArgTexture AnnotationArg = "texture"
)

// Binding roles qualifying a binding inside a texture provider group.
const (
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"
	AnnotationArgDiffuseSampler AnnotationArg = "diffuse_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgTexture,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgDiffuseTexture,
	AnnotationArgDiffuseSampler,
}

// parseAnnotation parses one WGSL source line. Lines without the annotation prefix return nil and
// no error; malformed annotations return an error naming the line.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: ErrAnnotation describing the problem
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: line %d: empty annotation", ErrAnnotation, lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: line %d: include takes exactly one struct type", ErrAnnotation, lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("%w: line %d: unknown struct type %q", ErrAnnotation, lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("%w: line %d: group takes group, binding, address space, var name and struct type", ErrAnnotation, lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("%w: line %d: unknown address space %q", ErrAnnotation, lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("%w: line %d: unknown struct type %q", ErrAnnotation, lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("%w: line %d: provider takes group, binding, identity and an optional role", ErrAnnotation, lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("%w: line %d: unknown provider identity %q", ErrAnnotation, lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("%w: line %d: unknown binding role %q", ErrAnnotation, lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("%w: line %d: unknown annotation type %q", ErrAnnotation, lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("%w: line %d: invalid group %q", ErrAnnotation, lineNum, groupArg)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil || binding < 0 {
		return 0, 0, fmt.Errorf("%w: line %d: invalid binding %q", ErrAnnotation, lineNum, bindingArg)
	}
	return group, binding, nil
}
