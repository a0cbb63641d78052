/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Method invocation (spec §4.5/§7): resolve the callee through the
// constant pool, prefer a registered native (gfunction) body, and
// otherwise build a fresh frame and recurse into RunFrame. Ground:
// jacobin's jvm/initializerBlock.go's runJavaInitializer/
// runNativeInitializer split between a Java frame and a Go native call --
// generalized here from <clinit>-only to every invoke* opcode.
package jvm

import (
	"container/list"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/frame"
	"github.com/MilkTool/KayoVM/gfunction"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/opcodes"
)

// invoke resolves and runs one invoke* opcode's target, returning
// noResult for a void method so the caller knows not to push anything.
func invoke(fs *list.List, caller *frame.Frame, cp *classloader.CPool, idx int, op byte) (interface{}, error) {
	var m *classloader.Method
	var err error
	switch op {
	case opcodes.INVOKEINTERFACE:
		m, err = cp.ResolveInterfaceMethod(idx)
	default:
		m, err = cp.ResolveMethod(idx)
	}
	if err != nil {
		return nil, toJavaException(err)
	}

	argSlots := m.ParamSlots
	hasReceiver := op != opcodes.INVOKESTATIC
	if hasReceiver {
		argSlots++
	}
	args := make([]frame.Slot, argSlots)
	for i := argSlots - 1; i >= 0; i-- {
		v, perr := caller.Pop()
		if perr != nil {
			return nil, toJavaException(perr)
		}
		args[i] = v
	}

	target := m
	if hasReceiver && op == opcodes.INVOKEVIRTUAL {
		if recv, ok := args[0].Ref.(*object.Object); ok && recv != nil && recv.Klass != nil {
			if vm := classloader.LookupMethod(recv.Klass, m.Name, m.Desc); vm != nil {
				target = vm
			}
		}
	}
	if hasReceiver && op == opcodes.INVOKEINTERFACE {
		if recv, ok := args[0].Ref.(*object.Object); ok && recv != nil && recv.Klass != nil {
			if im := classloader.ResolveInterfaceDispatch(recv.Klass, m.Name, m.Desc); im != nil {
				target = im
			}
		}
	}

	key := target.Declaring.Name + "." + target.Name + target.Desc
	if g, ok := gfunction.MethodSignature(key); ok {
		params := make([]interface{}, len(args))
		for i, a := range args {
			params[i] = slotToValue(a)
		}
		result := g.GFunction(params)
		if errBlk, ok := result.(*gfunction.GErrBlk); ok {
			return nil, throwf(errBlk.ExceptionType, "%s", errBlk.ErrMsg)
		}
		if isVoidDesc(target.Desc) {
			return noResult, nil
		}
		return result, nil
	}

	if target.IsNative {
		return nil, throwf(excnames.UnsatisfiedLinkError, "%s: no native implementation registered", key)
	}

	if err := classloader.Initialize(target.Declaring); err != nil {
		return nil, toJavaException(err)
	}

	callee := frame.CreateFrame(target.MaxStackN + 2)
	callee.ClName = target.Declaring.Name
	callee.MethName = target.Name
	callee.MethType = target.Desc
	callee.CP = target.Declaring.CP
	callee.Meth = target.Code
	callee.Locals = make([]frame.Slot, target.MaxLocalsN)
	callee.ExceptionTable = MethodExceptionTable(target)
	for i, a := range args {
		callee.Locals[i] = a
	}
	if err := frame.PushFrame(fs, callee); err != nil {
		return nil, throwf("java/lang/StackOverflowError", "%s", err.Error())
	}
	result, err := RunFrame(fs, callee)
	frame.PopFrame(fs)
	if err != nil {
		return nil, err
	}
	if isVoidDesc(target.Desc) {
		return noResult, nil
	}
	return result, nil
}

func isVoidDesc(desc string) bool {
	i := len(desc) - 1
	return i >= 0 && desc[i] == 'V'
}

func pushResult(fr *frame.Frame, result interface{}) {
	switch v := result.(type) {
	case int64:
		push(fr, frame.IntSlot(v))
	case float64:
		push(fr, frame.IntSlot(int64(v)))
	case nil:
		push(fr, frame.RefSlot(nil))
	default:
		push(fr, frame.RefSlot(v))
	}
}

func lockObject(obj *object.Object) {
	if obj.Mark == nil {
		return
	}
	obj.Mark.Lock()
}

func unlockObject(obj *object.Object) {
	if obj.Mark == nil {
		return
	}
	obj.Mark.Unlock()
}
