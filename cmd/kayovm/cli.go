/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// The CLI surface (spec §2's AMBIENT STACK): a cobra root command taking
// a classpath, trace/verbosity flags, a main class, and the program's
// own arguments, replacing the teacher's hand-rolled HandleCli/getopt
// loop with cobra's flag parsing while preserving the same environment-
// variable injection, -version/-help early exit, and -showversion's
// print-and-continue behavior.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/classpath"
	"github.com/MilkTool/KayoVM/globals"
	"github.com/MilkTool/KayoVM/heap"
	"github.com/MilkTool/KayoVM/log"
	"github.com/MilkTool/KayoVM/monitor"
	"github.com/MilkTool/KayoVM/shutdown"
	"github.com/MilkTool/KayoVM/trace"
)

const versionString = "KayoVM v.0.1.0"

var (
	flagClasspath   string
	flagShowVersion bool
	flagVerboseInit bool
	flagTraceClass  bool
	flagXtrace      string
)

// getEnvArgs reads the three JDK environment variables the JVM spec
// requires a launcher to honor and joins whatever is present with a
// single space, in JAVA_TOOL_OPTIONS, _JAVA_OPTIONS, JDK_JAVA_OPTIONS
// order (ground: teacher's cli_test.go getEnvArgs contract).
func getEnvArgs() string {
	var parts []string
	for _, name := range []string{"JAVA_TOOL_OPTIONS", "_JAVA_OPTIONS", "JDK_JAVA_OPTIONS"} {
		if v := os.Getenv(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func showCopyright() {
	fmt.Println("KayoVM -- A Java virtual machine")
	fmt.Println("Copyright (c) 2026. All rights reserved.")
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kayovm [flags] <main-class> [args...]",
		Short:   "KayoVM runs compiled Java bytecode",
		Version: versionString,
		Args:    cobra.ArbitraryArgs,
		RunE:    runMain,
	}
	cmd.Flags().StringVar(&flagClasspath, "cp", "", "application classpath (colon/semicolon separated)")
	cmd.Flags().BoolVar(&flagShowVersion, "showversion", false, "print version information and continue")
	cmd.Flags().BoolVar(&flagVerboseInit, "verbose:init", false, "trace class initialization")
	cmd.Flags().BoolVar(&flagTraceClass, "verbose:class", false, "trace class loading")
	cmd.Flags().StringVar(&flagXtrace, "Xtrace", "", "log verbosity level (off|fine|inst)")
	cmd.SetVersionTemplate(versionString + "\n")
	cmd.AddCommand(newMonitorCmd())
	return cmd
}

func newMonitorCmd() *cobra.Command {
	var bootClasspath string
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the interactive heap/classloader dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := classloader.Init(bootClasspath); err != nil {
				return err
			}
			cfg := &monitor.Config{
				Allocator: heap.New(0, 64*1024*1024),
				Loaders:   []*classloader.Loader{classloader.BootstrapCL, classloader.ExtensionCL, classloader.AppCL},
				Interval:  interval,
			}
			return monitor.StartTUI(cfg)
		},
	}
	cmd.Flags().StringVar(&bootClasspath, "cp", "", "bootstrap classpath")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval")
	return cmd
}

// bootCoreClasses loads, links, and initializes the handful of classes
// the rest of the bootstrap sequence depends on, in the fixed order
// spec §9 requires: java/lang/Object before anything else (every
// ClData's superclass chain bottoms out there), then java/lang/Class
// so Object's own mirror -- and every mirror built afterward -- has a
// real backing ClData to wrap instead of the classless fallback
// EnsureMirror otherwise produces. Cross-linking both mirrors here
// (rather than waiting for on-demand EnsureMirror calls from gfunction
// natives) means getClass() on the very first object ever allocated
// returns a fully-formed Class instance.
func bootCoreClasses() error {
	for _, name := range []string{"java/lang/Object", "java/lang/Class"} {
		c, err := classloader.Load(classloader.BootstrapCL, name)
		if err != nil {
			return err
		}
		if err := classloader.Link(c); err != nil {
			return err
		}
		if err := classloader.Initialize(c); err != nil {
			return err
		}
		classloader.EnsureMirror(c)
	}
	return nil
}

func runMain(cmd *cobra.Command, args []string) error {
	g := globals.InitGlobals("KayoVM")
	log.Init()
	switch flagXtrace {
	case "fine":
		_ = log.SetLogLevel(log.FINE)
	case "inst":
		_ = log.SetLogLevel(log.TRACE_INST)
	}
	globals.TraceClass = flagTraceClass
	globals.TraceInit = flagVerboseInit

	if flagShowVersion {
		fmt.Fprintln(os.Stderr, versionString)
	}

	if flagClasspath != "" {
		g.Classpath = strings.Split(flagClasspath, string(os.PathListSeparator))
	}
	bootPath := flagClasspath
	if env := os.Getenv("CLASSPATH"); bootPath == "" && env != "" {
		bootPath = env
	}
	if err := classloader.Init(bootPath); err != nil {
		trace.Error(err.Error())
		g.SetExitNow(true)
		shutdown.Exit(shutdown.JVM_ERROR)
		return nil
	}
	if err := bootCoreClasses(); err != nil {
		trace.Error(err.Error())
		g.SetExitNow(true)
		shutdown.Exit(shutdown.JVM_ERROR)
		return nil
	}
	if flagClasspath != "" {
		appPath, err := classpath.New(flagClasspath)
		if err != nil {
			trace.Error(err.Error())
			shutdown.Exit(shutdown.JVM_ERROR)
			return nil
		}
		classloader.AppCL.Path = appPath
	}

	if len(args) == 0 {
		_ = cmd.Usage()
		g.SetExitNow(true)
		return nil
	}

	mainClass := args[0]
	progArgs := args[1:]
	if env := getEnvArgs(); env != "" {
		progArgs = append(strings.Fields(env), progArgs...)
	}

	code := runMainClass(mainClass, progArgs)
	shutdown.Exit(code)
	return nil
}
