package shader

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is returned when a shader's reflected interface disagrees with the layout the
// host side provides for the same group or vertex slot.
var ErrLayoutMismatch = errors.New("shader: layout mismatch")

// MergeBindGroupLayouts combines the bind group layouts of several stages. Entries sharing a
// group and binding are merged by OR-ing their visibility. Entries are sorted by binding.
//
// Parameters:
//   - shaders: the stages of one pipeline
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: merged descriptors keyed by group index
//   - error: ErrLayoutMismatch if two stages declare different resources at the same slot
func MergeBindGroupLayouts(shaders ...Shader) (map[int]wgpu.BindGroupLayoutDescriptor, error) {
	merged := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)

	for _, s := range shaders {
		for group, desc := range s.BindGroupLayoutDescriptors() {
			if merged[group] == nil {
				merged[group] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, entry := range desc.Entries {
				existing, ok := merged[group][entry.Binding]
				if !ok {
					merged[group][entry.Binding] = entry
					continue
				}
				if !sameResource(existing, entry) {
					return nil, fmt.Errorf("%w: @group(%d) @binding(%d) differs in %s", ErrLayoutMismatch, group, entry.Binding, s.Key())
				}
				existing.Visibility |= entry.Visibility
				merged[group][entry.Binding] = existing
			}
		}
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(merged))
	for group, entries := range merged {
		desc := wgpu.BindGroupLayoutDescriptor{}
		for _, binding := range slices.Sorted(maps.Keys(entries)) {
			desc.Entries = append(desc.Entries, entries[binding])
		}
		result[group] = desc
	}
	return result, nil
}

// CompareBindGroupLayout checks that the host descriptor declares the same bindings, resource
// kinds and visibilities as the reflected one. Labels and MinBindingSize of zero on either side are ignored.
//
// Parameters:
//   - group: the group index, used in error messages
//   - reflected: the layout derived from shader source
//   - host: the layout the host side will create bind groups against
//
// Returns:
//   - error: ErrLayoutMismatch describing the first difference
func CompareBindGroupLayout(group int, reflected, host wgpu.BindGroupLayoutDescriptor) error {
	if len(reflected.Entries) != len(host.Entries) {
		return fmt.Errorf("%w: @group(%d) has %d bindings in shader, %d on host", ErrLayoutMismatch, group, len(reflected.Entries), len(host.Entries))
	}

	hostByBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(host.Entries))
	for _, e := range host.Entries {
		hostByBinding[e.Binding] = e
	}

	for _, r := range reflected.Entries {
		h, ok := hostByBinding[r.Binding]
		if !ok {
			return fmt.Errorf("%w: @group(%d) @binding(%d) missing on host", ErrLayoutMismatch, group, r.Binding)
		}
		if !sameResource(r, h) {
			return fmt.Errorf("%w: @group(%d) @binding(%d) resource kind differs", ErrLayoutMismatch, group, r.Binding)
		}
		if r.Visibility != h.Visibility {
			return fmt.Errorf("%w: @group(%d) @binding(%d) visibility shader=%d host=%d", ErrLayoutMismatch, group, r.Binding, r.Visibility, h.Visibility)
		}
		rs, hs := r.Buffer.MinBindingSize, h.Buffer.MinBindingSize
		if rs != 0 && hs != 0 && rs != hs {
			return fmt.Errorf("%w: @group(%d) @binding(%d) size shader=%d host=%d", ErrLayoutMismatch, group, r.Binding, rs, hs)
		}
	}
	return nil
}

// CompareVertexLayout checks stride, attribute count, and per-attribute format, offset and location.
//
// Parameters:
//   - slot: the vertex buffer slot, used in error messages
//   - reflected: the layout derived from the vertex input struct
//   - host: the layout of the vertex data the host uploads
//
// Returns:
//   - error: ErrLayoutMismatch describing the first difference
func CompareVertexLayout(slot int, reflected, host wgpu.VertexBufferLayout) error {
	if reflected.ArrayStride != host.ArrayStride {
		return fmt.Errorf("%w: vertex slot %d stride shader=%d host=%d", ErrLayoutMismatch, slot, reflected.ArrayStride, host.ArrayStride)
	}
	if len(reflected.Attributes) != len(host.Attributes) {
		return fmt.Errorf("%w: vertex slot %d has %d attributes in shader, %d on host", ErrLayoutMismatch, slot, len(reflected.Attributes), len(host.Attributes))
	}
	for i, r := range reflected.Attributes {
		if r != host.Attributes[i] {
			return fmt.Errorf("%w: vertex slot %d attribute %d shader=%+v host=%+v", ErrLayoutMismatch, slot, i, r, host.Attributes[i])
		}
	}
	return nil
}

// sameResource compares the resource kind of two entries, ignoring visibility and buffer size.
func sameResource(a, b wgpu.BindGroupLayoutEntry) bool {
	return a.Buffer.Type == b.Buffer.Type &&
		a.Sampler.Type == b.Sampler.Type &&
		a.Texture.SampleType == b.Texture.SampleType &&
		a.Texture.ViewDimension == b.Texture.ViewDimension &&
		a.StorageTexture.Access == b.StorageTexture.Access
}
