/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package opcodes

import "testing"

// Every defined opcode must be a distinct byte value: two instructions
// can never share an encoding (JVMS §6.5).
func TestOpcodeValuesAreUnique(t *testing.T) {
	named := map[string]int{
		"NOP": NOP, "ACONST_NULL": ACONST_NULL, "ICONST_M1": ICONST_M1,
		"ICONST_0": ICONST_0, "ICONST_1": ICONST_1, "ICONST_2": ICONST_2,
		"ICONST_3": ICONST_3, "ICONST_4": ICONST_4, "ICONST_5": ICONST_5,
		"LCONST_0": LCONST_0, "LCONST_1": LCONST_1,
		"FCONST_0": FCONST_0, "FCONST_1": FCONST_1, "FCONST_2": FCONST_2,
		"DCONST_0": DCONST_0, "DCONST_1": DCONST_1,
		"BIPUSH": BIPUSH, "SIPUSH": SIPUSH, "LDC": LDC, "LDC_W": LDC_W, "LDC2_W": LDC2_W,
		"ILOAD": ILOAD, "LLOAD": LLOAD, "FLOAD": FLOAD, "DLOAD": DLOAD, "ALOAD": ALOAD,
		"IALOAD": IALOAD, "LALOAD": LALOAD, "FALOAD": FALOAD, "DALOAD": DALOAD,
		"AALOAD": AALOAD, "BALOAD": BALOAD, "CALOAD": CALOAD, "SALOAD": SALOAD,
		"ISTORE": ISTORE, "LSTORE": LSTORE, "FSTORE": FSTORE, "DSTORE": DSTORE, "ASTORE": ASTORE,
		"IASTORE": IASTORE, "LASTORE": LASTORE, "FASTORE": FASTORE, "DASTORE": DASTORE,
		"AASTORE": AASTORE, "BASTORE": BASTORE, "CASTORE": CASTORE, "SASTORE": SASTORE,
		"POP": POP, "POP2": POP2, "DUP": DUP, "DUP_X1": DUP_X1, "DUP_X2": DUP_X2, "DUP2": DUP2, "SWAP": SWAP,
		"IADD": IADD, "LADD": LADD, "FADD": FADD, "DADD": DADD, "ISUB": ISUB, "LSUB": LSUB,
		"IMUL": IMUL, "LMUL": LMUL, "IDIV": IDIV, "LDIV": LDIV, "IREM": IREM, "LREM": LREM,
		"INEG": INEG, "LNEG": LNEG,
		"ISHL": ISHL, "ISHR": ISHR, "IUSHR": IUSHR, "IAND": IAND, "IOR": IOR, "IXOR": IXOR, "IINC": IINC,
		"I2L": I2L, "I2F": I2F, "I2D": I2D, "L2I": L2I, "F2I": F2I, "D2I": D2I,
		"LCMP": LCMP, "FCMPL": FCMPL, "FCMPG": FCMPG,
		"IFEQ": IFEQ, "IFNE": IFNE, "IFLT": IFLT, "IFGE": IFGE, "IFGT": IFGT, "IFLE": IFLE,
		"IF_ICMPEQ": IF_ICMPEQ, "IF_ICMPNE": IF_ICMPNE, "IF_ICMPLT": IF_ICMPLT,
		"IF_ICMPGE": IF_ICMPGE, "IF_ICMPGT": IF_ICMPGT, "IF_ICMPLE": IF_ICMPLE,
		"IF_ACMPEQ": IF_ACMPEQ, "IF_ACMPNE": IF_ACMPNE,
		"GOTO": GOTO,
		"IRETURN": IRETURN, "LRETURN": LRETURN, "FRETURN": FRETURN, "DRETURN": DRETURN,
		"ARETURN": ARETURN, "RETURN": RETURN,
		"GETSTATIC": GETSTATIC, "PUTSTATIC": PUTSTATIC, "GETFIELD": GETFIELD, "PUTFIELD": PUTFIELD,
		"INVOKEVIRTUAL": INVOKEVIRTUAL, "INVOKESPECIAL": INVOKESPECIAL,
		"INVOKESTATIC": INVOKESTATIC, "INVOKEINTERFACE": INVOKEINTERFACE, "INVOKEDYNAMIC": INVOKEDYNAMIC,
		"NEW": NEW, "NEWARRAY": NEWARRAY, "ANEWARRAY": ANEWARRAY, "ARRAYLENGTH": ARRAYLENGTH,
		"ATHROW": ATHROW, "CHECKCAST": CHECKCAST, "INSTANCEOF": INSTANCEOF,
		"MONITORENTER": MONITORENTER, "MONITOREXIT": MONITOREXIT,
		"IFNULL": IFNULL, "IFNONNULL": IFNONNULL,
	}

	seen := make(map[int]string, len(named))
	for name, val := range named {
		if other, ok := seen[val]; ok {
			t.Fatalf("opcode collision: %s and %s both encode to 0x%02x", name, other, val)
		}
		seen[val] = name
	}
}

func TestKnownOpcodeValues(t *testing.T) {
	cases := map[int]int{
		NOP:        0x00,
		ICONST_0:   0x03,
		ALOAD_0:    0x2a,
		RETURN:     0xb1,
		CHECKCAST:  0xc0,
		INSTANCEOF: 0xc1,
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("expected 0x%02x, got 0x%02x", want, got)
		}
	}
}

func TestAtypeValuesAreUnique(t *testing.T) {
	vals := []int{AtypeBoolean, AtypeChar, AtypeFloat, AtypeDouble, AtypeByte, AtypeShort, AtypeInt, AtypeLong}
	seen := make(map[int]bool)
	for _, v := range vals {
		if seen[v] {
			t.Fatalf("duplicate atype value %d", v)
		}
		seen[v] = true
	}
	if AtypeBoolean != 4 || AtypeLong != 11 {
		t.Fatal("expected newarray atype values to match JVMS table 6.5.newarray")
	}
}
