/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"math"

	"golang.org/x/text/encoding/unicode"
)

// parseConstantPool reads the constant_pool_count and the constant pool
// itself (JVMS §4.4), returning it unresolved: Utf8/Integer/Float/Long/
// Double are stored as final values (spec §3: "terminal, never
// rewritten"); every other tag is stored as raw indices, ready for the
// resolve functions in resolve.go to rewrite in place.
func parseConstantPool(r *reader) (*CPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	cp := newCPool(int(count))

	// Long and Double entries occupy two consecutive indices (JVMS §4.4.5
	// note); index i+1 is left as a zero-value, unused slot.
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		switch Tag(tag) {
		case TagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, err
			}
			s, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagUtf8, Utf8: s}

		case TagInteger:
			v, err := r.u4()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagInteger, IntVal: int32(v)}

		case TagFloat:
			v, err := r.u4()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagFloat, FloatVal: math.Float32frombits(v)}

		case TagLong:
			hi, err := r.u4()
			if err != nil {
				return nil, err
			}
			lo, err := r.u4()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagLong, LongVal: int64(hi)<<32 | int64(lo)}
			i++ // occupies two indices

		case TagDouble:
			hi, err := r.u4()
			if err != nil {
				return nil, err
			}
			lo, err := r.u4()
			if err != nil {
				return nil, err
			}
			bits := uint64(hi)<<32 | uint64(lo)
			cp.Entries[i] = CpEntry{Tag: TagDouble, DoubleVal: math.Float64frombits(bits)}
			i++ // occupies two indices

		case TagClass:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagClass, Idx1: idx}

		case TagString:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagString, Idx1: idx}

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			classIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: Tag(tag), Idx1: classIdx, Idx2: natIdx}

		case TagNameAndType:
			nameIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			descIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagNameAndType, Idx1: nameIdx, Idx2: descIdx}

		case TagMethodHandle:
			kind, err := r.u1()
			if err != nil {
				return nil, err
			}
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagMethodHandle, RefKind: kind, Idx1: idx}

		case TagMethodType:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: TagMethodType, Idx1: idx}

		case TagDynamic, TagInvokeDynamic:
			bsmIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: Tag(tag), Idx1: bsmIdx, Idx2: natIdx}

		case TagModule, TagPackage:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			cp.Entries[i] = CpEntry{Tag: Tag(tag), Idx1: idx}

		default:
			return nil, cfe("unrecognized constant pool tag")
		}
	}
	return cp, nil
}

// decodeModifiedUTF8 converts the JVM's modified UTF-8 encoding (JVMS
// §4.4.7: embedded nulls encoded as two bytes, supplementary characters
// as surrogate pairs) to a standard Go string. Ordinary UTF-8 input
// (everything but those two cases) passes through golang.org/x/text's
// decoder unchanged, which is what handles the bulk of real-world class
// files; the two modified-UTF-8-specific cases are patched up first.
func decodeModifiedUTF8(raw []byte) (string, error) {
	fixed := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		// modified UTF-8 encodes NUL as 0xC0 0x80 instead of 0x00.
		if i+1 < len(raw) && raw[i] == 0xC0 && raw[i+1] == 0x80 {
			fixed = append(fixed, 0x00)
			i += 2
			continue
		}
		// a supplementary character arrives as two 3-byte surrogates:
		// ED A0-AF xx (high) followed by ED B0-BF xx (low).
		if i+5 < len(raw) && raw[i] == 0xED && raw[i+1]&0xF0 == 0xA0 &&
			raw[i+3] == 0xED && raw[i+4]&0xF0 == 0xB0 {
			hi := rune(raw[i+1]&0x0F)<<6 | rune(raw[i+2]&0x3F)
			lo := rune(raw[i+4]&0x0F)<<6 | rune(raw[i+5]&0x3F)
			fixed = append(fixed, string(0x10000+(hi<<10|lo))...)
			i += 6
			continue
		}
		fixed = append(fixed, raw[i])
		i++
	}
	dec := unicode.UTF8.NewDecoder()
	out, err := dec.Bytes(fixed)
	if err != nil {
		return string(fixed), nil // best-effort: most class files are plain ASCII/UTF-8
	}
	return string(out), nil
}
