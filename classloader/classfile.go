/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// This file is the bytecode reader: it parses raw .class bytes (JVMS
// chapter 4) into a *ClData, unresolved. Ground: jacobin's
// classloader/parser.go and formatCheck flow, generalized from jacobin's
// two-pass parse()+convertToPostableClass() into one pass since this
// runtime doesn't need the intermediate indexable-by-int ParsedClass
// shape jacobin keeps for its own historical reasons.
package classloader

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"strconv"

	"github.com/MilkTool/KayoVM/trace"
)

const classMagic = 0xCAFEBABE
const maxSupportedMajor = 52 // Java 8, per spec §6

// cfe = class format error, the error the parser returns for any
// malformed input (spec §7). Prints the file/line of the detecting
// function the way jacobin's cfe() does, to make verifier bugs easy to
// locate during development.
func cfe(msg string) error {
	errMsg := "Class Format Error: " + msg
	pc, _, _, ok := runtime.Caller(1)
	if ok {
		fn := runtime.FuncForPC(pc)
		file, line := fn.FileLine(pc)
		errMsg += "\n  detected by file: " + file + ", line: " + strconv.Itoa(line)
	}
	trace.Error(errMsg)
	return fmt.Errorf("%s", errMsg)
}

// reader is a cursor over the raw class bytes.
type reader struct {
	b   []byte
	pos int
}

func (r *reader) u1() (byte, error) {
	if r.pos+1 > len(r.b) {
		return 0, cfe("unexpected end of class file")
	}
	v := r.b[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if r.pos+2 > len(r.b) {
		return 0, cfe("unexpected end of class file")
	}
	v := binary.BigEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if r.pos+4 > len(r.b) {
		return 0, cfe("unexpected end of class file")
	}
	v := binary.BigEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, cfe("unexpected end of class file")
	}
	v := r.b[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// parse reads rawBytes into a freshly constructed, unresolved ClData.
func parse(rawBytes []byte) (*ClData, error) {
	r := &reader{b: rawBytes}

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, cfe("invalid magic number")
	}

	if _, err := r.u2(); err != nil { // minor version, unchecked
		return nil, err
	}
	major, err := r.u2()
	if err != nil {
		return nil, err
	}
	if major > maxSupportedMajor {
		return nil, cfe(fmt.Sprintf("unsupported class file major version %d (max %d)", major, maxSupportedMajor))
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, err
	}

	thisClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisName, ok := cp.ClassNameAt(int(thisClassIdx))
	if !ok {
		return nil, cfe("this_class does not point to a valid Class entry")
	}

	superClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	var superName string
	if superClassIdx != 0 {
		superName, ok = cp.ClassNameAt(int(superClassIdx))
		if !ok {
			return nil, cfe("super_class does not point to a valid Class entry")
		}
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	var ifaceNames []string
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, ok := cp.ClassNameAt(int(idx))
		if !ok {
			return nil, cfe("interface entry does not point to a valid Class entry")
		}
		ifaceNames = append(ifaceNames, name)
	}

	fields, err := parseFields(r, cp)
	if err != nil {
		return nil, err
	}

	methods, err := parseMethods(r, cp)
	if err != nil {
		return nil, err
	}

	sourceFile := ""
	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, content, err := parseAttribute(r, cp)
		if err != nil {
			return nil, err
		}
		if name == "SourceFile" && len(content) >= 2 {
			idx := binary.BigEndian.Uint16(content)
			sourceFile = cp.Utf8At(int(idx))
		}
	}

	kd := &ClData{
		Name:           thisName,
		SourceFile:     sourceFile,
		SuperclassName: superName,
		InterfaceNames: ifaceNames,
		CP:             cp,
		Fields:         fields,
		Methods:        methods,
		MethodTable:    make(map[string]*Method),
	}
	decodeAccessFlags(kd, accessFlags)
	for _, m := range methods {
		kd.MethodTable[m.Name+m.Desc] = m
	}
	cp.Owner = kd

	return kd, nil
}

func decodeAccessFlags(kd *ClData, flags uint16) {
	const (
		accPublic     = 0x0001
		accFinal      = 0x0010
		accSuper      = 0x0020
		accInterface  = 0x0200
		accAbstract   = 0x0400
		accSynthetic  = 0x1000
		accAnnotation = 0x2000
		accEnum       = 0x4000
	)
	kd.Access = AccessFlags{
		Public:     flags&accPublic != 0,
		Final:      flags&accFinal != 0,
		Super:      flags&accSuper != 0,
		Interface:  flags&accInterface != 0,
		Abstract:   flags&accAbstract != 0,
		Synthetic:  flags&accSynthetic != 0,
		Annotation: flags&accAnnotation != 0,
		Enum:       flags&accEnum != 0,
	}
}

func parseFields(r *reader, cp *CPool) ([]*Field, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		f := &Field{
			Name:     cp.Utf8At(int(nameIdx)),
			Desc:     cp.Utf8At(int(descIdx)),
			IsStatic: flags&0x0008 != 0,
		}
		f.Access = decodeMemberFlags(flags)

		attrCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(attrCount); j++ {
			name, content, err := parseAttribute(r, cp)
			if err != nil {
				return nil, err
			}
			if name == "ConstantValue" && len(content) >= 2 {
				idx := binary.BigEndian.Uint16(content)
				f.ConstValue = constantValueAt(cp, int(idx))
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func decodeMemberFlags(flags uint16) AccessFlags {
	return AccessFlags{
		Public:   flags&0x0001 != 0,
		Final:    flags&0x0010 != 0,
		Abstract: flags&0x0400 != 0,
	}
}

func constantValueAt(cp *CPool, idx int) any {
	e, ok := cp.entryCopy(idx)
	if !ok {
		return nil
	}
	switch e.Tag {
	case TagInteger:
		return e.IntVal
	case TagFloat:
		return e.FloatVal
	case TagLong:
		return e.LongVal
	case TagDouble:
		return e.DoubleVal
	case TagString:
		return cp.Utf8At(int(e.Idx1))
	}
	return nil
}

func parseMethods(r *reader, cp *CPool) ([]*Method, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		m := &Method{
			Name:     cp.Utf8At(int(nameIdx)),
			Desc:     cp.Utf8At(int(descIdx)),
			IsNative: flags&0x0100 != 0,
		}
		m.Access = decodeMemberFlags(flags)
		m.ParamSlots = paramSlotCount(m.Desc)

		attrCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(attrCount); j++ {
			name, content, err := parseAttribute(r, cp)
			if err != nil {
				return nil, err
			}
			if name == "Code" {
				if err := parseCodeAttribute(m, content, cp); err != nil {
					return nil, err
				}
			}
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// paramSlotCount computes how many local-variable slots a method
// descriptor's parameter list occupies (JVMS §4.3.3), not counting a
// receiver.
func paramSlotCount(desc string) int {
	slots := 0
	i := 1 // skip leading '('
	for i < len(desc) && desc[i] != ')' {
		switch desc[i] {
		case 'L':
			for i < len(desc) && desc[i] != ';' {
				i++
			}
			slots++
		case '[':
			for i < len(desc) && desc[i] == '[' {
				i++
			}
			if i < len(desc) && desc[i] == 'L' {
				for i < len(desc) && desc[i] != ';' {
					i++
				}
			}
			slots++
		case 'J', 'D':
			slots += 2
		default:
			slots++
		}
		i++
	}
	return slots
}

func parseCodeAttribute(m *Method, content []byte, cp *CPool) error {
	cr := &reader{b: content}
	maxStack, err := cr.u2()
	if err != nil {
		return err
	}
	maxLocals, err := cr.u2()
	if err != nil {
		return err
	}
	codeLen, err := cr.u4()
	if err != nil {
		return err
	}
	code, err := cr.bytes(int(codeLen))
	if err != nil {
		return err
	}
	m.MaxStackN = int(maxStack)
	m.MaxLocalsN = int(maxLocals)
	m.Code = append([]byte(nil), code...)

	excCount, err := cr.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(excCount); i++ {
		startPC, _ := cr.u2()
		endPC, _ := cr.u2()
		handlerPC, _ := cr.u2()
		catchIdx, _ := cr.u2()
		catchType := ""
		if catchIdx != 0 {
			catchType, _ = cp.ClassNameAt(int(catchIdx))
		}
		m.Exceptions = append(m.Exceptions, CodeException{
			StartPC: int(startPC), EndPC: int(endPC),
			HandlerPC: int(handlerPC), CatchType: catchType,
		})
	}

	subAttrCount, err := cr.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(subAttrCount); i++ {
		name, subContent, err := parseAttribute(cr, cp)
		if err != nil {
			return err
		}
		if name == "LineNumberTable" {
			lr := &reader{b: subContent}
			n, _ := lr.u2()
			for j := 0; j < int(n); j++ {
				pc, _ := lr.u2()
				line, _ := lr.u2()
				m.Lines = append(m.Lines, LineEntry{StartPC: int(pc), Line: int(line)})
			}
		}
	}
	return nil
}

// parseAttribute reads one generic attribute_info and returns its name
// and raw content; callers that care about a particular attribute's
// shape parse content themselves.
func parseAttribute(r *reader, cp *CPool) (string, []byte, error) {
	nameIdx, err := r.u2()
	if err != nil {
		return "", nil, err
	}
	length, err := r.u4()
	if err != nil {
		return "", nil, err
	}
	content, err := r.bytes(int(length))
	if err != nil {
		return "", nil, err
	}
	return cp.Utf8At(int(nameIdx)), content, nil
}
