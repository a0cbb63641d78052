/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"container/list"
	"fmt"
	"os"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/frame"
	"github.com/MilkTool/KayoVM/jvm"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/shutdown"
	"github.com/MilkTool/KayoVM/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		shutdown.Exit(shutdown.JVM_ERROR)
	}
}

// runMainClass loads mainClassName, resolves its public static void
// main(String[]) entry point, and runs it to completion, returning the
// process exit code the spec §7 fatal-condition table assigns.
func runMainClass(mainClassName string, progArgs []string) int {
	klass, err := classloader.Load(classloader.AppCL, mainClassName)
	if err != nil {
		trace.Error(err.Error())
		return shutdown.LINK_ERROR
	}
	if err := classloader.Link(klass); err != nil {
		trace.Error(err.Error())
		return shutdown.LINK_ERROR
	}
	if err := classloader.Initialize(klass); err != nil {
		trace.Error(err.Error())
		return shutdown.JVM_ERROR
	}

	m, ok := klass.MethodTable["main([Ljava/lang/String;)V"]
	if !ok {
		trace.Error(mainClassName + ": no main([Ljava/lang/String;)V method found")
		return shutdown.JVM_ERROR
	}

	argv, err := buildArgsArray(progArgs)
	if err != nil {
		trace.Error(err.Error())
		return shutdown.JVM_ERROR
	}

	fs := list.New()
	fr := frame.CreateFrame(m.MaxStackN + 1)
	fr.ClName = m.Declaring.Name
	fr.MethName = m.Name
	fr.MethType = m.Desc
	fr.CP = m.Declaring.CP
	fr.Meth = m.Code
	fr.Locals = make([]frame.Slot, m.MaxLocalsN)
	fr.ExceptionTable = jvm.MethodExceptionTable(m)
	if len(fr.Locals) > 0 {
		fr.Locals[0] = frame.RefSlot(argv)
	}
	if err := frame.PushFrame(fs, fr); err != nil {
		trace.Error(err.Error())
		return shutdown.JVM_ERROR
	}

	_, err = jvm.RunFrame(fs, fr)
	frame.PopFrame(fs)
	if err != nil {
		if je, ok := err.(*jvm.JavaException); ok {
			trace.Error("Uncaught exception " + je.ClassName + ": " + je.Message)
			return shutdown.APP_EXCEPTION
		}
		trace.Error(err.Error())
		return shutdown.JVM_ERROR
	}
	return shutdown.OK
}

// buildArgsArray builds the String[] passed as main's sole parameter.
func buildArgsArray(args []string) (*object.Array, error) {
	arrClass, err := classloader.Load(classloader.BootstrapCL, "[Ljava/lang/String;")
	if err != nil {
		return nil, err
	}
	arr, err := object.NewArray(arrClass, len(args))
	if err != nil {
		return nil, err
	}
	for i := range args {
		arr.Elements[i] = object.CreateCompactStringFromGoString(&args[i])
	}
	return arr, nil
}
