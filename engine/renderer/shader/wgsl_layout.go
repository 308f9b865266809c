package shader

import (
	"strconv"
	"strings"
)

// typeLayoutInfo is the byte size and alignment of a WGSL host-shareable type.
type typeLayoutInfo struct {
	size  uint64
	align uint64
}

// primitiveLayouts lists the scalar, vector and matrix types uniforms may hold.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayoutInfo{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"vec4<u32>":   {16, 16},
	"vec4u":       {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// typeLayout resolves a primitive, a known struct, or a fixed-size array<T, N>.
func typeLayout(typeName string, structs map[string]typeLayoutInfo) (typeLayoutInfo, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := structs[typeName]; ok {
		return l, true
	}
	if !strings.HasPrefix(typeName, "array<") || !strings.HasSuffix(typeName, ">") {
		return typeLayoutInfo{}, false
	}
	elem, count, ok := strings.Cut(typeName[len("array<"):len(typeName)-1], ",")
	if !ok {
		return typeLayoutInfo{}, false
	}
	el, ok := typeLayout(strings.TrimSpace(elem), structs)
	if !ok {
		return typeLayoutInfo{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return typeLayoutInfo{}, false
	}
	return typeLayoutInfo{n * alignUp(el.align, el.size), el.align}, true
}

// structLayouts computes the layout of every struct, resolving struct members that reference
// other structs by repeated passes until no further progress is made.
func structLayouts(structs []wgslStruct) map[string]typeLayoutInfo {
	resolved := make(map[string]typeLayoutInfo, len(structs))
	pending := structs
	for len(pending) > 0 {
		var next []wgslStruct
		for _, st := range pending {
			if l, ok := structLayout(st, resolved); ok {
				resolved[st.name] = l
			} else {
				next = append(next, st)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}

func structLayout(st wgslStruct, known map[string]typeLayoutInfo) (typeLayoutInfo, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range st.fields {
		if f.builtin {
			continue
		}
		l, ok := typeLayout(f.typeName, known)
		if !ok {
			return typeLayoutInfo{}, false
		}
		offset = alignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayoutInfo{alignUp(maxAlign, offset), maxAlign}, true
}
