/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package jvm is the frame-based bytecode interpreter (spec §4.4/§7):
// RunFrame drives one method activation to completion, dispatching each
// opcode from opcodes against the frame's operand stack and locals,
// resolving constant-pool references through classloader, and invoking
// native methods through gfunction. Ground: the teacher's
// jvm/instantiate.go and jvm/initializerBlock.go describe the
// surrounding frame-stack and <clinit> machinery; the opcode dispatch
// loop itself is this runtime's own, built the same way (an explicit
// switch over byte opcodes, ground: other_examples' interpreter style).
package jvm

import (
	"container/list"
	"fmt"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/frame"
	"github.com/MilkTool/KayoVM/gfunction"
	"github.com/MilkTool/KayoVM/globals"
	"github.com/MilkTool/KayoVM/log"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/opcodes"
	"github.com/MilkTool/KayoVM/trace"
)

// JavaException carries an uncaught or rethrown Java exception up out of
// RunFrame to whichever caller started the frame stack (the thread
// driver, or a synchronous native caller via InvokeClinitFunc).
type JavaException struct {
	ClassName string
	Message   string
	Throwable *object.Object
}

func (e *JavaException) Error() string { return e.ClassName + ": " + e.Message }

func throwf(excName, format string, args ...interface{}) *JavaException {
	return &JavaException{ClassName: excName, Message: fmt.Sprintf(format, args...)}
}

// throwable lazily materializes the heap object backing e, for the case
// where e was built by throwf without one (every VM-raised exception --
// ArithmeticException, NullPointerException, and the like -- rather than
// a user ATHROW of an already-constructed instance). A catch handler
// still needs a real reference to astore or call getMessage() on.
func (e *JavaException) throwable() *object.Object {
	if e.Throwable != nil {
		return e.Throwable
	}
	obj := object.MakeEmptyObject()
	if classloader.BootstrapCL != nil {
		if klass, err := classloader.Load(classloader.BootstrapCL, e.ClassName); err == nil {
			obj = object.New(klass)
		}
	}
	msg := e.Message
	obj.FieldTable["message"] = object.Field{Ftype: "Ljava/lang/String;", Fvalue: object.CreateCompactStringFromGoString(&msg)}
	e.Throwable = obj
	return obj
}

// RunFrame executes fr's bytecode to completion (a return opcode) or
// until an exception propagates out unhandled. fs is the owning thread's
// frame stack, needed so invoke opcodes can push/pop callee frames.
//
// On a thrown exception, the loop consults fr.ExceptionTable before
// giving up on the frame (spec §4.4, JVMS §4.7.3, §2.10): the first
// entry whose [StartPC, EndPC) covers the throwing instruction and whose
// CatchType matches the thrown class (by name, or by walking the
// resolved superclass chain; "" is a catch-all) wins. On a match the
// operand stack is cleared, the exception reference is pushed, and
// execution resumes at HandlerPC. No match propagates the exception to
// the caller, exactly as returning it used to do unconditionally.
func RunFrame(fs *list.List, fr *frame.Frame) (interface{}, error) {
	cp, _ := fr.CP.(*classloader.CPool)

	for {
		var opPC int
		var op byte
		var result interface{}
		var isReturn bool
		var err error

		if fr.PC >= len(fr.Meth) {
			opPC = fr.PC
			err = throwf(excnames.NoSuchMethodError, "%s.%s: fell off the end of the bytecode", fr.ClName, fr.MethName)
		} else {
			opPC = fr.PC
			op = fr.Meth[fr.PC]
			fr.PC++
			result, isReturn, err = dispatch(fs, fr, cp, op)
		}

		if err != nil {
			je, ok := err.(*JavaException)
			if !ok {
				return nil, err
			}
			if handlerPC, caught := findHandler(fr, opPC, je.ClassName); caught {
				fr.Clear()
				push(fr, frame.RefSlot(je.throwable()))
				fr.PC = handlerPC
				continue
			}
			return nil, je
		}
		if isReturn {
			return result, nil
		}

		if globals.TraceClass {
			trace.Trace(fmt.Sprintf("%s.%s PC=%d op=0x%02x depth=%d", fr.ClName, fr.MethName, fr.PC, op, fr.Depth()))
		}
	}
}

// findHandler scans fr's exception table (declaration order, matching
// JVMS's top-to-bottom-first-match rule) for an entry covering atPC
// whose catch type matches excClassName.
func findHandler(fr *frame.Frame, atPC int, excClassName string) (int, bool) {
	for _, h := range fr.ExceptionTable {
		if atPC < h.StartPC || atPC >= h.EndPC {
			continue
		}
		if exceptionMatches(excClassName, h.CatchType) {
			return h.HandlerPC, true
		}
	}
	return 0, false
}

// exceptionMatches implements the catch-type test: an empty CatchType is
// a catch-all (used for finally blocks), an exact name match is the
// common case, and otherwise the thrown class's resolved superclass
// chain is walked looking for catchType (spec §4.4's "type match uses
// resolved class hierarchy"). A thrown class this loader can't resolve
// (a VM-synthesized exception whose class was never linked, with no
// bootstrap classpath configured) only matches exactly or catch-all.
func exceptionMatches(thrownClass, catchType string) bool {
	if catchType == "" || catchType == thrownClass {
		return true
	}
	if classloader.BootstrapCL == nil {
		return false
	}
	c, err := classloader.Load(classloader.BootstrapCL, thrownClass)
	if err != nil {
		return false
	}
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur.Name == catchType {
			return true
		}
	}
	return false
}

// dispatch executes the single opcode op, already consumed from fr.Meth
// at the top of RunFrame's loop. isReturn reports a genuine method
// return (IRETURN/ARETURN/RETURN/...); err is always a *JavaException
// when non-nil.
func dispatch(fs *list.List, fr *frame.Frame, cp *classloader.CPool, op byte) (result interface{}, isReturn bool, err error) {
	switch op {
	case opcodes.NOP:

	case opcodes.ACONST_NULL:
		push(fr, frame.RefSlot(nil))

	case opcodes.ICONST_M1, opcodes.ICONST_0, opcodes.ICONST_1, opcodes.ICONST_2,
		opcodes.ICONST_3, opcodes.ICONST_4, opcodes.ICONST_5:
		push(fr, frame.IntSlot(int64(int(op)-int(opcodes.ICONST_0))))

	case opcodes.LCONST_0:
		push(fr, frame.IntSlot(0))
	case opcodes.LCONST_1:
		push(fr, frame.IntSlot(1))

	case opcodes.BIPUSH:
		push(fr, frame.IntSlot(int64(int8(fr.Meth[fr.PC]))))
		fr.PC++

	case opcodes.SIPUSH:
		v := int16(uint16(fr.Meth[fr.PC])<<8 | uint16(fr.Meth[fr.PC+1]))
		push(fr, frame.IntSlot(int64(v)))
		fr.PC += 2

	case opcodes.LDC:
		idx := int(fr.Meth[fr.PC])
		fr.PC++
		if e := loadConstant(fr, cp, idx); e != nil {
			return nil, false, e
		}

	case opcodes.LDC_W, opcodes.LDC2_W:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if e := loadConstant(fr, cp, idx); e != nil {
			return nil, false, e
		}

	case opcodes.ILOAD, opcodes.LLOAD, opcodes.FLOAD, opcodes.DLOAD:
		push(fr, fr.Locals[fr.Meth[fr.PC]])
		fr.PC++
	case opcodes.ALOAD:
		push(fr, fr.Locals[fr.Meth[fr.PC]])
		fr.PC++

	case opcodes.ILOAD_0, opcodes.ILOAD_1, opcodes.ILOAD_2, opcodes.ILOAD_3:
		push(fr, fr.Locals[int(op)-int(opcodes.ILOAD_0)])
	case opcodes.LLOAD_0, opcodes.LLOAD_1, opcodes.LLOAD_2, opcodes.LLOAD_3:
		push(fr, fr.Locals[int(op)-int(opcodes.LLOAD_0)])
	case opcodes.ALOAD_0, opcodes.ALOAD_1, opcodes.ALOAD_2, opcodes.ALOAD_3:
		push(fr, fr.Locals[int(op)-int(opcodes.ALOAD_0)])

	case opcodes.ISTORE, opcodes.LSTORE, opcodes.FSTORE, opcodes.DSTORE, opcodes.ASTORE:
		v, _ := pop(fr)
		setLocal(fr, int(fr.Meth[fr.PC]), v)
		fr.PC++

	case opcodes.ISTORE_0, opcodes.ISTORE_1, opcodes.ISTORE_2, opcodes.ISTORE_3:
		v, _ := pop(fr)
		setLocal(fr, int(op)-int(opcodes.ISTORE_0), v)
	case opcodes.ASTORE_0, opcodes.ASTORE_1, opcodes.ASTORE_2, opcodes.ASTORE_3:
		v, _ := pop(fr)
		setLocal(fr, int(op)-int(opcodes.ASTORE_0), v)

	case opcodes.IALOAD, opcodes.BALOAD, opcodes.CALOAD,
		opcodes.LALOAD, opcodes.FALOAD, opcodes.DALOAD, opcodes.SALOAD:
		if e := arrayLoad(fr); e != nil {
			return nil, false, e
		}
	case opcodes.AALOAD:
		if e := arrayLoad(fr); e != nil {
			return nil, false, e
		}

	case opcodes.IASTORE, opcodes.BASTORE, opcodes.CASTORE, opcodes.AASTORE,
		opcodes.LASTORE, opcodes.FASTORE, opcodes.DASTORE, opcodes.SASTORE:
		if e := arrayStore(fr); e != nil {
			return nil, false, e
		}

	case opcodes.POP:
		pop(fr)
	case opcodes.POP2:
		pop(fr)
		pop(fr)
	case opcodes.DUP:
		v, _ := peek(fr)
		push(fr, v)
	case opcodes.DUP_X1:
		v1, _ := pop(fr)
		v2, _ := pop(fr)
		push(fr, v1)
		push(fr, v2)
		push(fr, v1)
	case opcodes.SWAP:
		v1, _ := pop(fr)
		v2, _ := pop(fr)
		push(fr, v1)
		push(fr, v2)

	case opcodes.IADD, opcodes.LADD:
		binOpInt(fr, func(a, b int64) int64 { return a + b })
	case opcodes.ISUB, opcodes.LSUB:
		binOpInt(fr, func(a, b int64) int64 { return a - b })
	case opcodes.IMUL, opcodes.LMUL:
		binOpInt(fr, func(a, b int64) int64 { return a * b })
	case opcodes.IDIV, opcodes.LDIV:
		b, _ := pop(fr)
		a, _ := pop(fr)
		if b.Num == 0 {
			return nil, false, throwf(excnames.ArithmeticException, "/ by zero")
		}
		push(fr, frame.IntSlot(a.Num/b.Num))
	case opcodes.IREM, opcodes.LREM:
		b, _ := pop(fr)
		a, _ := pop(fr)
		if b.Num == 0 {
			return nil, false, throwf(excnames.ArithmeticException, "/ by zero")
		}
		push(fr, frame.IntSlot(a.Num % b.Num))
	case opcodes.INEG, opcodes.LNEG:
		v, _ := pop(fr)
		push(fr, frame.IntSlot(-v.Num))

	case opcodes.ISHL:
		binOpInt(fr, func(a, b int64) int64 { return a << (uint(b) & 31) })
	case opcodes.ISHR:
		binOpInt(fr, func(a, b int64) int64 { return a >> (uint(b) & 31) })
	case opcodes.IUSHR:
		binOpInt(fr, func(a, b int64) int64 { return int64(uint32(a) >> (uint(b) & 31)) })
	case opcodes.IAND:
		binOpInt(fr, func(a, b int64) int64 { return a & b })
	case opcodes.IOR:
		binOpInt(fr, func(a, b int64) int64 { return a | b })
	case opcodes.IXOR:
		binOpInt(fr, func(a, b int64) int64 { return a ^ b })

	case opcodes.IINC:
		idx := int(fr.Meth[fr.PC])
		delta := int64(int8(fr.Meth[fr.PC+1]))
		fr.PC += 2
		fr.Locals[idx] = frame.IntSlot(fr.Locals[idx].Num + delta)

	case opcodes.I2L, opcodes.I2F, opcodes.I2D, opcodes.L2I:
		// slot representation doesn't distinguish numeric subtypes;
		// the value itself needs no conversion.

	case opcodes.LCMP:
		b, _ := pop(fr)
		a, _ := pop(fr)
		push(fr, frame.IntSlot(int64(cmp(a.Num, b.Num))))

	case opcodes.IFEQ, opcodes.IFNE, opcodes.IFLT, opcodes.IFGE, opcodes.IFGT, opcodes.IFLE:
		v, _ := pop(fr)
		if branchTaken(op, v.Num, 0) {
			branch(fr)
		} else {
			fr.PC += 2
		}

	case opcodes.IF_ICMPEQ, opcodes.IF_ICMPNE, opcodes.IF_ICMPLT,
		opcodes.IF_ICMPGE, opcodes.IF_ICMPGT, opcodes.IF_ICMPLE:
		b, _ := pop(fr)
		a, _ := pop(fr)
		if branchTaken(op-opcodes.IF_ICMPEQ+opcodes.IFEQ, a.Num, b.Num) {
			branch(fr)
		} else {
			fr.PC += 2
		}

	case opcodes.IF_ACMPEQ, opcodes.IF_ACMPNE:
		b, _ := pop(fr)
		a, _ := pop(fr)
		eq := a.Ref == b.Ref
		if (op == opcodes.IF_ACMPEQ) == eq {
			branch(fr)
		} else {
			fr.PC += 2
		}

	case opcodes.IFNULL, opcodes.IFNONNULL:
		v, _ := pop(fr)
		isNull := v.Ref == nil
		if (op == opcodes.IFNULL) == isNull {
			branch(fr)
		} else {
			fr.PC += 2
		}

	case opcodes.GOTO:
		branch(fr)

	case opcodes.IRETURN, opcodes.LRETURN, opcodes.FRETURN, opcodes.DRETURN:
		v, _ := pop(fr)
		return v.Num, true, nil
	case opcodes.ARETURN:
		v, _ := pop(fr)
		return v.Ref, true, nil
	case opcodes.RETURN:
		return nil, true, nil

	case opcodes.GETSTATIC:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if e := getStatic(fr, cp, idx); e != nil {
			return nil, false, e
		}
	case opcodes.PUTSTATIC:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if e := putStatic(fr, cp, idx); e != nil {
			return nil, false, e
		}
	case opcodes.GETFIELD:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if e := getField(fr, cp, idx); e != nil {
			return nil, false, e
		}
	case opcodes.PUTFIELD:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if e := putField(fr, cp, idx); e != nil {
			return nil, false, e
		}

	case opcodes.INVOKESTATIC, opcodes.INVOKESPECIAL, opcodes.INVOKEVIRTUAL, opcodes.INVOKEINTERFACE:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		if op == opcodes.INVOKEINTERFACE {
			fr.PC += 2 // count + trailing zero byte (JVMS §6.5.invokeinterface)
		}
		res, e := invoke(fs, fr, cp, idx, op)
		if e != nil {
			return nil, false, e
		}
		if res != noResult {
			pushResult(fr, res)
		}

	case opcodes.NEW:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		name, _ := cp.ClassNameAt(idx)
		obj, e := Instantiate(name)
		if e != nil {
			return nil, false, toJavaException(e)
		}
		push(fr, frame.RefSlot(obj))

	case opcodes.NEWARRAY:
		atype := fr.Meth[fr.PC]
		fr.PC++
		length, _ := pop(fr)
		arr, e := newPrimitiveArray(atype, int(length.Num))
		if e != nil {
			return nil, false, e
		}
		push(fr, frame.RefSlot(arr))

	case opcodes.ANEWARRAY:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		length, _ := pop(fr)
		compName, _ := cp.ClassNameAt(idx)
		compClass, e := classloader.Load(classloader.BootstrapCL, compName)
		if e != nil {
			return nil, false, toJavaException(e)
		}
		arrClass, e := classloader.Load(classloader.BootstrapCL, "[L"+compClass.Name+";")
		if e != nil {
			return nil, false, toJavaException(e)
		}
		arr, e := object.NewArray(arrClass, int(length.Num))
		if e != nil {
			return nil, false, throwf(excnames.NegativeArraySizeException, "%s", e.Error())
		}
		push(fr, frame.RefSlot(arr))

	case opcodes.ARRAYLENGTH:
		v, _ := pop(fr)
		arr, ok := v.Ref.(*object.Array)
		if !ok {
			return nil, false, throwf(excnames.NullPointerException, "arraylength on null")
		}
		push(fr, frame.IntSlot(int64(arr.Len())))

	case opcodes.ATHROW:
		v, _ := pop(fr)
		obj, _ := v.Ref.(*object.Object)
		if obj == nil {
			return nil, false, throwf(excnames.NullPointerException, "athrow on null")
		}
		return nil, false, &JavaException{ClassName: obj.ClassName(), Message: obj.ToString(), Throwable: obj}

	case opcodes.CHECKCAST:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		target, e := cp.ResolveClass(idx)
		if e != nil {
			return nil, false, toJavaException(e)
		}
		v, _ := peek(fr)
		if v.Ref != nil && !classloader.IsAssignableFrom(runtimeClassOf(v.Ref), target) {
			return nil, false, throwf(excnames.ClassCastException, "%s cannot be cast to %s", classNameOf(v.Ref), target.Name)
		}

	case opcodes.INSTANCEOF:
		idx := int(u2(fr.Meth, fr.PC))
		fr.PC += 2
		target, e := cp.ResolveClass(idx)
		if e != nil {
			return nil, false, toJavaException(e)
		}
		v, _ := pop(fr)
		result := int64(0)
		if v.Ref != nil && classloader.IsAssignableFrom(runtimeClassOf(v.Ref), target) {
			result = 1
		}
		push(fr, frame.IntSlot(result))

	case opcodes.MONITORENTER:
		v, _ := pop(fr)
		if obj, ok := v.Ref.(*object.Object); ok {
			lockObject(obj)
		}
	case opcodes.MONITOREXIT:
		v, _ := pop(fr)
		if obj, ok := v.Ref.(*object.Object); ok {
			unlockObject(obj)
		}

	default:
		return nil, false, throwf(excnames.UnsupportedOperationException, "%s.%s: unimplemented opcode 0x%02x at PC %d", fr.ClName, fr.MethName, op, fr.PC-1)
	}

	return nil, false, nil
}

// noResult marks an invoke as void so the caller doesn't push a slot.
var noResult = &struct{}{}

func push(fr *frame.Frame, s frame.Slot)       { _ = fr.Push(s) }
func pop(fr *frame.Frame) (frame.Slot, error)  { return fr.Pop() }
func peek(fr *frame.Frame) (frame.Slot, error) { return fr.Peek() }

func setLocal(fr *frame.Frame, idx int, v frame.Slot) {
	for len(fr.Locals) <= idx {
		fr.Locals = append(fr.Locals, frame.IntSlot(0))
	}
	fr.Locals[idx] = v
}

func u2(code []byte, pc int) uint16 {
	return uint16(code[pc])<<8 | uint16(code[pc+1])
}

func binOpInt(fr *frame.Frame, f func(a, b int64) int64) {
	b, _ := pop(fr)
	a, _ := pop(fr)
	push(fr, frame.IntSlot(f(a.Num, b.Num)))
}

func cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func branchTaken(op byte, a, b int64) bool {
	switch op {
	case opcodes.IFEQ:
		return a == b
	case opcodes.IFNE:
		return a != b
	case opcodes.IFLT:
		return a < b
	case opcodes.IFGE:
		return a >= b
	case opcodes.IFGT:
		return a > b
	case opcodes.IFLE:
		return a <= b
	}
	return false
}

func branch(fr *frame.Frame) {
	offset := int16(u2(fr.Meth, fr.PC))
	fr.PC = fr.PC - 1 + int(offset)
}

func loadConstant(fr *frame.Frame, cp *classloader.CPool, idx int) error {
	switch cp.TagAt(idx) {
	case classloader.TagInteger:
		e, _ := entryAt(cp, idx)
		push(fr, frame.IntSlot(int64(e.IntVal)))
	case classloader.TagLong:
		e, _ := entryAt(cp, idx)
		push(fr, frame.IntSlot(e.LongVal))
	case classloader.TagFloat:
		e, _ := entryAt(cp, idx)
		push(fr, frame.IntSlot(int64(e.FloatVal)))
	case classloader.TagDouble:
		e, _ := entryAt(cp, idx)
		push(fr, frame.IntSlot(int64(e.DoubleVal)))
	case classloader.TagString, classloader.TagResolvedString:
		s, err := cp.ResolveString(idx)
		if err != nil {
			return toJavaException(err)
		}
		push(fr, frame.RefSlot(s))
	case classloader.TagClass, classloader.TagResolvedClass:
		c, err := cp.ResolveClass(idx)
		if err != nil {
			return toJavaException(err)
		}
		push(fr, frame.RefSlot(classloader.EnsureMirror(c)))
	default:
		return throwf(excnames.NoSuchFieldError, "ldc: CP entry %d is not loadable", idx)
	}
	return nil
}

// entryAt is a tiny exported-package-internal helper: classloader keeps
// CpEntry unexported-field access inside its own package, so the
// interpreter goes through the accessor methods above for everything
// except these raw numeric-literal cases, which need the entry itself.
func entryAt(cp *classloader.CPool, idx int) (classloader.CpEntry, bool) {
	return cp.EntryAt(idx)
}

func getStatic(fr *frame.Frame, cp *classloader.CPool, idx int) error {
	f, err := cp.ResolveField(idx)
	if err != nil {
		return toJavaException(err)
	}
	if err := classloader.Initialize(f.Declaring); err != nil {
		return toJavaException(err)
	}
	push(fr, valueToSlot(f.Declaring.Statics[f.SlotIndex].Value))
	return nil
}

func putStatic(fr *frame.Frame, cp *classloader.CPool, idx int) error {
	f, err := cp.ResolveField(idx)
	if err != nil {
		return toJavaException(err)
	}
	if err := classloader.Initialize(f.Declaring); err != nil {
		return toJavaException(err)
	}
	v, _ := pop(fr)
	f.Declaring.Statics[f.SlotIndex].Value = slotToValue(v)
	return nil
}

func getField(fr *frame.Frame, cp *classloader.CPool, idx int) error {
	f, err := cp.ResolveField(idx)
	if err != nil {
		return toJavaException(err)
	}
	v, _ := pop(fr)
	obj, ok := v.Ref.(*object.Object)
	if !ok || obj == nil {
		return throwf(excnames.NullPointerException, "getfield on null")
	}
	fv := obj.FieldTable[f.Name]
	push(fr, valueToSlot(fv.Fvalue))
	return nil
}

func putField(fr *frame.Frame, cp *classloader.CPool, idx int) error {
	f, err := cp.ResolveField(idx)
	if err != nil {
		return toJavaException(err)
	}
	val, _ := pop(fr)
	ref, _ := pop(fr)
	obj, ok := ref.Ref.(*object.Object)
	if !ok || obj == nil {
		return throwf(excnames.NullPointerException, "putfield on null")
	}
	obj.FieldTable[f.Name] = object.Field{Ftype: f.Desc, Fvalue: slotToValue(val)}
	return nil
}

func valueToSlot(v any) frame.Slot {
	switch t := v.(type) {
	case int64:
		return frame.IntSlot(t)
	case float64:
		return frame.IntSlot(int64(t))
	default:
		return frame.RefSlot(v)
	}
}

// runtimeClassOf and classNameOf back CHECKCAST/INSTANCEOF's assignability
// check: a reference slot holds either an *object.Object or an
// *object.Array, never a bare *classloader.ClData.
func runtimeClassOf(v any) *classloader.ClData {
	switch t := v.(type) {
	case *object.Object:
		if t == nil {
			return nil
		}
		return t.Klass
	case *object.Array:
		if t == nil {
			return nil
		}
		return t.Klass
	default:
		return nil
	}
}

func classNameOf(v any) string {
	if c := runtimeClassOf(v); c != nil {
		return c.Name
	}
	return "?"
}

func slotToValue(s frame.Slot) any {
	if s.Kind == frame.KindRef {
		return s.Ref
	}
	return s.Num
}

func arrayLoad(fr *frame.Frame) error {
	idx, _ := pop(fr)
	ref, _ := pop(fr)
	arr, ok := ref.Ref.(*object.Array)
	if !ok || arr == nil {
		return throwf(excnames.NullPointerException, "array load on null")
	}
	if idx.Num < 0 || int(idx.Num) >= arr.Len() {
		return throwf(excnames.ArrayIndexOutOfBoundsException, "index %d out of bounds for length %d", idx.Num, arr.Len())
	}
	push(fr, valueToSlot(arr.Elements[idx.Num]))
	return nil
}

func arrayStore(fr *frame.Frame) error {
	val, _ := pop(fr)
	idx, _ := pop(fr)
	ref, _ := pop(fr)
	arr, ok := ref.Ref.(*object.Array)
	if !ok || arr == nil {
		return throwf(excnames.NullPointerException, "array store on null")
	}
	if idx.Num < 0 || int(idx.Num) >= arr.Len() {
		return throwf(excnames.ArrayIndexOutOfBoundsException, "index %d out of bounds for length %d", idx.Num, arr.Len())
	}
	arr.Elements[idx.Num] = slotToValue(val)
	return nil
}

func newPrimitiveArray(atype byte, length int) (*object.Array, error) {
	var desc string
	switch atype {
	case opcodes.AtypeBoolean:
		desc = "[Z"
	case opcodes.AtypeChar:
		desc = "[C"
	case opcodes.AtypeFloat:
		desc = "[F"
	case opcodes.AtypeDouble:
		desc = "[D"
	case opcodes.AtypeByte:
		desc = "[B"
	case opcodes.AtypeShort:
		desc = "[S"
	case opcodes.AtypeInt:
		desc = "[I"
	case opcodes.AtypeLong:
		desc = "[J"
	default:
		return nil, throwf(excnames.IllegalArgumentException, "newarray: unrecognized atype %d", atype)
	}
	klass, err := classloader.Load(classloader.BootstrapCL, desc)
	if err != nil {
		return nil, toJavaException(err)
	}
	arr, err := object.NewArray(klass, length)
	if err != nil {
		return nil, throwf(excnames.NegativeArraySizeException, "%s", err.Error())
	}
	return arr, nil
}

func toJavaException(err error) error {
	if je, ok := err.(*JavaException); ok {
		return je
	}
	if ie, ok := err.(*classloader.InitError); ok {
		return throwf(excnames.ExceptionInInitializerError, "%s", ie.Error())
	}
	return throwf(excnames.NoClassDefFoundError, "%s", err.Error())
}

// MethodExceptionTable converts a method's parsed Code-attribute
// exception table into the frame-local form RunFrame consults on an
// unwind (spec §4.4). Exported so every frame-construction call site --
// inside jvm and in cmd/kayovm's entry-point frame -- builds the same
// shape.
func MethodExceptionTable(m *classloader.Method) []frame.ExceptionHandler {
	if len(m.Exceptions) == 0 {
		return nil
	}
	table := make([]frame.ExceptionHandler, len(m.Exceptions))
	for i, ce := range m.Exceptions {
		table[i] = frame.ExceptionHandler{
			StartPC:   ce.StartPC,
			EndPC:     ce.EndPC,
			HandlerPC: ce.HandlerPC,
			CatchType: ce.CatchType,
		}
	}
	return table
}

func init() {
	gfunction.Load()
	classloader.InvokeClinitFunc = func(m *classloader.Method) error {
		fs := list.New()
		fr := frame.CreateFrame(m.MaxStackN + 2)
		fr.ClName = m.Declaring.Name
		fr.MethName = m.Name
		fr.MethType = m.Desc
		fr.CP = m.Declaring.CP
		fr.Meth = m.Code
		fr.Locals = make([]frame.Slot, m.MaxLocalsN)
		fr.ExceptionTable = MethodExceptionTable(m)
		if err := frame.PushFrame(fs, fr); err != nil {
			return err
		}
		_, err := RunFrame(fs, fr)
		frame.PopFrame(fs)
		return err
	}
	globals.GetGlobalRef().FuncThrowException = func(excName, msg string) {
		_ = log.Log(excName+": "+msg, log.SEVERE)
	}
}
