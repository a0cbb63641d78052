/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package excnames enumerates the JVM-visible throwable classes that the
// runtime itself raises (as opposed to ones thrown by interpreted Java
// code). Every value here is the fully-qualified slash-form class name;
// keeping them as constants instead of ad hoc string literals is the one
// thing the teacher's error handling never did and that we add since
// error kinds are enumerated explicitly in the spec this runtime targets.
package excnames

const (
	AbstractMethodError           = "java/lang/AbstractMethodError"
	ArithmeticException           = "java/lang/ArithmeticException"
	ArrayIndexOutOfBoundsException = "java/lang/ArrayIndexOutOfBoundsException"
	ClassCastException            = "java/lang/ClassCastException"
	ClassNotFoundException        = "java/lang/ClassNotFoundException"
	ExceptionInInitializerError   = "java/lang/ExceptionInInitializerError"
	IllegalAccessError            = "java/lang/IllegalAccessError"
	IllegalArgumentException      = "java/lang/IllegalArgumentException"
	IncompatibleClassChangeError  = "java/lang/IncompatibleClassChangeError"
	InterruptedException          = "java/lang/InterruptedException"
	IOException                   = "java/io/IOException"
	NoClassDefFoundError          = "java/lang/NoClassDefFoundError"
	NegativeArraySizeException    = "java/lang/NegativeArraySizeException"
	NoSuchFieldError              = "java/lang/NoSuchFieldError"
	NoSuchMethodError             = "java/lang/NoSuchMethodError"
	NullPointerException          = "java/lang/NullPointerException"
	NumberFormatException         = "java/lang/NumberFormatException"
	OutOfMemoryError              = "java/lang/OutOfMemoryError"
	StackOverflowError            = "java/lang/StackOverflowError"
	UnsatisfiedLinkError          = "java/lang/UnsatisfiedLinkError"
	UnsupportedOperationException = "java/lang/UnsupportedOperationException"
)
