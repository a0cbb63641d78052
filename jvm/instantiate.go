/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Instantiating a class is a two-part process (ground: jacobin's
// jvm/instantiate.go): the class needs to be loaded, linked, and
// initialized so its layout is knowable, and then an Object with that
// layout's fields is allocated. The constructor (<init>) itself is run
// separately, by whichever invokespecial opcode follows the `new`.
package jvm

import (
	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/log"
	"github.com/MilkTool/KayoVM/object"
)

// Instantiate loads, links, and initializes classname (spec §4.2's
// load→link→initialize pipeline) and returns a fresh instance with
// every declared field zero-valued, ready for <init> to run against it.
func Instantiate(classname string) (*object.Object, error) {
	_ = log.Log("Instantiating class: "+classname, log.FINE)

	klass, err := classloader.Load(classloader.AppCL, classname)
	if err != nil {
		return nil, err
	}
	if err := classloader.Link(klass); err != nil {
		return nil, err
	}
	if err := classloader.Initialize(klass); err != nil {
		return nil, err
	}
	return object.New(klass), nil
}
