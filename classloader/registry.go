/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// This file is the class loader and registry (spec §4.2): the bootstrap/
// extension/application loader trio, the per-loader class cache, and the
// load/define/link/initialize operations. Ground: jacobin's
// classloader.Classloader + BootstrapCL/ExtensionCL/AppCL +
// classloader.Init, generalized to hold a registry map directly instead
// of going through jacobin's separate package-level MethArea map (this
// runtime has three independent loaders, each genuinely needing its own
// cache, rather than one global method area).
package classloader

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MilkTool/KayoVM/classpath"
	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/globals"
	"github.com/MilkTool/KayoVM/trace"
	"github.com/MilkTool/KayoVM/types"
)

// Loader is one class-loader's identity and cache. The bootstrap loader
// is Loader{Name: "bootstrap", Parent: nil}; user loaders additionally
// carry JavaObj, the heap object implementing loadClass(name) in Java
// (spec §4.2) -- typed `any` to avoid an object-package import cycle.
type Loader struct {
	Name    string
	Parent  *Loader
	Path    *classpath.Path // nil for user loaders that only delegate to Java code
	JavaObj any

	mu      sync.RWMutex
	classes map[string]*ClData
}

func newLoader(name string, parent *Loader) *Loader {
	return &Loader{Name: name, Parent: parent, classes: make(map[string]*ClData)}
}

// BootstrapCL, ExtensionCL, and AppCL are the three standard loaders
// (spec §4.2); they're process-wide, as is the rest of the state Init
// sets up (spec §9).
var (
	BootstrapCL *Loader
	ExtensionCL *Loader
	AppCL       *Loader
)

// UserLoadClassFunc lets the interpreter invoke a user loader's Java
// loadClass(name) method; wired up once the interpreter package is live,
// the same cross-package-hook pattern as globals.FuncThrowException.
var UserLoadClassFunc func(loaderObj any, name string) (*ClData, error)

// Init constructs the three classloaders and points them at each other,
// then configures the bootstrap loader's archive search path (spec §9's
// fixed process start-up order: allocator → bootstrap loader → ...).
func Init(bootClasspath string) error {
	BootstrapCL = newLoader("bootstrap", nil)
	ExtensionCL = newLoader("extension", BootstrapCL)
	AppCL = newLoader("app", ExtensionCL)

	path, err := classpath.New(bootClasspath)
	if err != nil {
		return err
	}
	BootstrapCL.Path = path
	return nil
}

// LoadedCount reports how many classes l has defined, for the monitor
// dashboard's per-loader class-count panel.
func (l *Loader) LoadedCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.classes)
}

// FindLoaded is an exact cache lookup in the registry owned by l (spec
// §4.2, §8 invariant: stable once non-nil).
func FindLoaded(l *Loader, name string) (*ClData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.classes[name]
	return c, ok
}

func recordLoaded(l *Loader, name string, c *ClData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.classes[name] = c
}

// Load implements spec §4.2's load(loader, name): normalize to slash
// form, check the cache, try the bootstrap path, and only then delegate
// to the loader's own Java loadClass. The delegation rule (user loaders
// must consult bootstrap first) is enforced here rather than trusted to
// Java code, since this runtime's "Java code" for a custom loader is, at
// this layer, just the UserLoadClassFunc hook.
func Load(l *Loader, name string) (*ClData, error) {
	name = normalizeName(name)
	if c, ok := FindLoaded(l, name); ok {
		return c, nil
	}

	if c, err := loadBoot(name); err == nil {
		recordLoaded(l, name, c)
		if l != BootstrapCL {
			recordLoaded(BootstrapCL, name, c)
		}
		return c, nil
	}

	if l.JavaObj != nil && UserLoadClassFunc != nil {
		c, err := UserLoadClassFunc(l.JavaObj, name)
		if err != nil {
			return nil, err
		}
		recordLoaded(l, name, c)
		return c, nil
	}

	return nil, fmt.Errorf("%s: %s", excnames.ClassNotFoundException, name)
}

func normalizeName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// loadBoot implements spec §4.2's loadBoot: synthesize primitives and
// arrays, otherwise read bytes from the bootstrap search path and define.
func loadBoot(name string) (*ClData, error) {
	if c, ok := FindLoaded(BootstrapCL, name); ok {
		return c, nil
	}
	if _, ok := primitiveDescriptors[name]; ok {
		return definePrimitive(name)
	}
	if strings.HasPrefix(name, types.Array) {
		return defineArray(name)
	}
	if BootstrapCL.Path == nil {
		return nil, fmt.Errorf("%s: %s (no bootstrap classpath configured)", excnames.ClassNotFoundException, name)
	}
	raw, err := BootstrapCL.Path.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", excnames.ClassNotFoundException, name)
	}
	if globals.TraceClass {
		trace.Trace("loadBoot: loaded " + name + " from bootstrap classpath")
	}
	return Define(BootstrapCL, raw)
}

// Define implements spec §4.2's define: parse bytes, construct the
// descriptor, attach loader, register -- without initializing.
func Define(l *Loader, rawBytes []byte) (*ClData, error) {
	kd, err := parse(rawBytes)
	if err != nil {
		return nil, err
	}
	kd.Loader = l
	kd.setStatus(Loaded)
	if err := linkSuperAndInterfaces(kd); err != nil {
		return nil, err
	}
	recordLoaded(l, kd.Name, kd)
	if globals.TraceClass {
		trace.Trace("Define: class " + kd.Name + " loaded by " + l.Name)
	}
	return kd, nil
}

// linkSuperAndInterfaces eagerly resolves the direct superclass and
// superinterface links (spec §3's invariant that every non-Object,
// non-primitive descriptor has a non-null superclass), deferring the
// rest of linking (layout, v-table/i-table) to Link.
func linkSuperAndInterfaces(kd *ClData) error {
	if kd.Name != "java/lang/Object" && kd.SuperclassName != "" {
		super, err := Load(kd.Loader, kd.SuperclassName)
		if err != nil {
			return fmt.Errorf("%s: superclass %s of %s: %s", excnames.NoClassDefFoundError, kd.SuperclassName, kd.Name, err.Error())
		}
		kd.Superclass = super
	} else if kd.Name != "java/lang/Object" && !kd.IsPrimitive {
		return errors.New("class format error: " + kd.Name + " has no superclass and is not java/lang/Object")
	}
	for _, ifName := range kd.InterfaceNames {
		iface, err := Load(kd.Loader, ifName)
		if err != nil {
			return fmt.Errorf("%s: interface %s of %s: %s", excnames.NoClassDefFoundError, ifName, kd.Name, err.Error())
		}
		kd.Interfaces = append(kd.Interfaces, iface)
	}
	return nil
}
