package cpu

import "strings"

// Descriptor is the static description of an opcode: its mnemonic, how many
// operand bytes follow it and its base cost in machine cycles. Conditional
// instructions carry their untaken cost; Execute reports the difference when
// the branch is taken.
type Descriptor struct {
	Opcode   uint8
	Operands uint8
	Ticks    int
	Name     string
	Desc     string

	// Flagged marks instructions whose emulation is approximated, so a
	// session can break on them.
	Flagged bool
	// DelaysIME marks EI: interrupts are enabled after the next instruction.
	DelaysIME bool
}

// Length is the size of the instruction in bytes, opcode included.
func (d Descriptor) Length() int {
	return 1 + int(d.Operands)
}

// Illegal reports whether the opcode is unused on the DMG.
func (d Descriptor) Illegal() bool {
	return illegal[d.Opcode]
}

var descriptors [256]Descriptor

var illegal = [256]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
	0xF4: true, 0xFC: true, 0xFD: true,
}

var flagged = [256]bool{
	0x08: true, // LD (a16),SP
	0x10: true, // STOP
	0x27: true, // DAA
	0xE8: true, // ADD SP,r8
	0xF8: true, // LD HL,SP+r8
}

// Decode returns the descriptor of a base opcode. 0xCB is the prefix, its
// descriptor covers the prefix and the sub-opcode as a single instruction.
func Decode(opcode uint8) Descriptor {
	return descriptors[opcode]
}

// CBName returns the mnemonic of a CB-prefixed sub-opcode.
func CBName(opcode uint8) string {
	return opcodeNamesCB[opcode]
}

func init() {
	for i := range descriptors {
		op := uint8(i)
		row := opcodeTable[op]
		descriptors[i] = Descriptor{
			Opcode:    op,
			Operands:  row.operands,
			Ticks:     row.ticks,
			Name:      row.name,
			Desc:      describe(row.name),
			Flagged:   flagged[op],
			DelaysIME: op == 0xFB,
		}
	}
}

var groups = map[string]string{
	"NOP": "control", "STOP": "control", "HALT": "control", "DI": "control",
	"EI": "control", "PREFIX": "control",
	"LD": "load", "LDH": "load", "PUSH": "stack", "POP": "stack",
	"ADD": "arithmetic", "ADC": "arithmetic", "SUB": "arithmetic", "SBC": "arithmetic",
	"INC": "arithmetic", "DEC": "arithmetic", "DAA": "arithmetic", "CP": "compare",
	"AND": "logic", "XOR": "logic", "OR": "logic", "CPL": "logic", "SCF": "flags",
	"CCF": "flags", "RLCA": "rotate", "RLA": "rotate", "RRCA": "rotate", "RRA": "rotate",
	"JP": "jump", "JR": "relative jump", "CALL": "call", "RST": "restart",
	"RET": "return", "RETI": "return from interrupt",
}

func describe(name string) string {
	mnemonic, _, _ := strings.Cut(name, " ")
	if g, ok := groups[mnemonic]; ok {
		return g
	}
	return "illegal opcode"
}

type opcodeRow struct {
	name     string
	operands uint8
	ticks    int
}

// Operand placeholders: d8/d16 immediates, a8/a16 addresses, r8 signed offset.
var opcodeTable = [256]opcodeRow{
	{"NOP", 0, 1}, {"LD BC,d16", 2, 3}, {"LD (BC),A", 0, 2}, {"INC BC", 0, 2},
	{"INC B", 0, 1}, {"DEC B", 0, 1}, {"LD B,d8", 1, 2}, {"RLCA", 0, 1},
	{"LD (a16),SP", 2, 5}, {"ADD HL,BC", 0, 2}, {"LD A,(BC)", 0, 2}, {"DEC BC", 0, 2},
	{"INC C", 0, 1}, {"DEC C", 0, 1}, {"LD C,d8", 1, 2}, {"RRCA", 0, 1},

	{"STOP d8", 1, 1}, {"LD DE,d16", 2, 3}, {"LD (DE),A", 0, 2}, {"INC DE", 0, 2},
	{"INC D", 0, 1}, {"DEC D", 0, 1}, {"LD D,d8", 1, 2}, {"RLA", 0, 1},
	{"JR r8", 1, 3}, {"ADD HL,DE", 0, 2}, {"LD A,(DE)", 0, 2}, {"DEC DE", 0, 2},
	{"INC E", 0, 1}, {"DEC E", 0, 1}, {"LD E,d8", 1, 2}, {"RRA", 0, 1},

	{"JR NZ,r8", 1, 2}, {"LD HL,d16", 2, 3}, {"LD (HL+),A", 0, 2}, {"INC HL", 0, 2},
	{"INC H", 0, 1}, {"DEC H", 0, 1}, {"LD H,d8", 1, 2}, {"DAA", 0, 1},
	{"JR Z,r8", 1, 2}, {"ADD HL,HL", 0, 2}, {"LD A,(HL+)", 0, 2}, {"DEC HL", 0, 2},
	{"INC L", 0, 1}, {"DEC L", 0, 1}, {"LD L,d8", 1, 2}, {"CPL", 0, 1},

	{"JR NC,r8", 1, 2}, {"LD SP,d16", 2, 3}, {"LD (HL-),A", 0, 2}, {"INC SP", 0, 2},
	{"INC (HL)", 0, 3}, {"DEC (HL)", 0, 3}, {"LD (HL),d8", 1, 3}, {"SCF", 0, 1},
	{"JR C,r8", 1, 2}, {"ADD HL,SP", 0, 2}, {"LD A,(HL-)", 0, 2}, {"DEC SP", 0, 2},
	{"INC A", 0, 1}, {"DEC A", 0, 1}, {"LD A,d8", 1, 2}, {"CCF", 0, 1},

	{"LD B,B", 0, 1}, {"LD B,C", 0, 1}, {"LD B,D", 0, 1}, {"LD B,E", 0, 1},
	{"LD B,H", 0, 1}, {"LD B,L", 0, 1}, {"LD B,(HL)", 0, 2}, {"LD B,A", 0, 1},
	{"LD C,B", 0, 1}, {"LD C,C", 0, 1}, {"LD C,D", 0, 1}, {"LD C,E", 0, 1},
	{"LD C,H", 0, 1}, {"LD C,L", 0, 1}, {"LD C,(HL)", 0, 2}, {"LD C,A", 0, 1},

	{"LD D,B", 0, 1}, {"LD D,C", 0, 1}, {"LD D,D", 0, 1}, {"LD D,E", 0, 1},
	{"LD D,H", 0, 1}, {"LD D,L", 0, 1}, {"LD D,(HL)", 0, 2}, {"LD D,A", 0, 1},
	{"LD E,B", 0, 1}, {"LD E,C", 0, 1}, {"LD E,D", 0, 1}, {"LD E,E", 0, 1},
	{"LD E,H", 0, 1}, {"LD E,L", 0, 1}, {"LD E,(HL)", 0, 2}, {"LD E,A", 0, 1},

	{"LD H,B", 0, 1}, {"LD H,C", 0, 1}, {"LD H,D", 0, 1}, {"LD H,E", 0, 1},
	{"LD H,H", 0, 1}, {"LD H,L", 0, 1}, {"LD H,(HL)", 0, 2}, {"LD H,A", 0, 1},
	{"LD L,B", 0, 1}, {"LD L,C", 0, 1}, {"LD L,D", 0, 1}, {"LD L,E", 0, 1},
	{"LD L,H", 0, 1}, {"LD L,L", 0, 1}, {"LD L,(HL)", 0, 2}, {"LD L,A", 0, 1},

	{"LD (HL),B", 0, 2}, {"LD (HL),C", 0, 2}, {"LD (HL),D", 0, 2}, {"LD (HL),E", 0, 2},
	{"LD (HL),H", 0, 2}, {"LD (HL),L", 0, 2}, {"HALT", 0, 1}, {"LD (HL),A", 0, 2},
	{"LD A,B", 0, 1}, {"LD A,C", 0, 1}, {"LD A,D", 0, 1}, {"LD A,E", 0, 1},
	{"LD A,H", 0, 1}, {"LD A,L", 0, 1}, {"LD A,(HL)", 0, 2}, {"LD A,A", 0, 1},

	{"ADD A,B", 0, 1}, {"ADD A,C", 0, 1}, {"ADD A,D", 0, 1}, {"ADD A,E", 0, 1},
	{"ADD A,H", 0, 1}, {"ADD A,L", 0, 1}, {"ADD A,(HL)", 0, 2}, {"ADD A,A", 0, 1},
	{"ADC A,B", 0, 1}, {"ADC A,C", 0, 1}, {"ADC A,D", 0, 1}, {"ADC A,E", 0, 1},
	{"ADC A,H", 0, 1}, {"ADC A,L", 0, 1}, {"ADC A,(HL)", 0, 2}, {"ADC A,A", 0, 1},

	{"SUB B", 0, 1}, {"SUB C", 0, 1}, {"SUB D", 0, 1}, {"SUB E", 0, 1},
	{"SUB H", 0, 1}, {"SUB L", 0, 1}, {"SUB (HL)", 0, 2}, {"SUB A", 0, 1},
	{"SBC A,B", 0, 1}, {"SBC A,C", 0, 1}, {"SBC A,D", 0, 1}, {"SBC A,E", 0, 1},
	{"SBC A,H", 0, 1}, {"SBC A,L", 0, 1}, {"SBC A,(HL)", 0, 2}, {"SBC A,A", 0, 1},

	{"AND B", 0, 1}, {"AND C", 0, 1}, {"AND D", 0, 1}, {"AND E", 0, 1},
	{"AND H", 0, 1}, {"AND L", 0, 1}, {"AND (HL)", 0, 2}, {"AND A", 0, 1},
	{"XOR B", 0, 1}, {"XOR C", 0, 1}, {"XOR D", 0, 1}, {"XOR E", 0, 1},
	{"XOR H", 0, 1}, {"XOR L", 0, 1}, {"XOR (HL)", 0, 2}, {"XOR A", 0, 1},

	{"OR B", 0, 1}, {"OR C", 0, 1}, {"OR D", 0, 1}, {"OR E", 0, 1},
	{"OR H", 0, 1}, {"OR L", 0, 1}, {"OR (HL)", 0, 2}, {"OR A", 0, 1},
	{"CP B", 0, 1}, {"CP C", 0, 1}, {"CP D", 0, 1}, {"CP E", 0, 1},
	{"CP H", 0, 1}, {"CP L", 0, 1}, {"CP (HL)", 0, 2}, {"CP A", 0, 1},

	{"RET NZ", 0, 2}, {"POP BC", 0, 3}, {"JP NZ,a16", 2, 3}, {"JP a16", 2, 4},
	{"CALL NZ,a16", 2, 3}, {"PUSH BC", 0, 4}, {"ADD A,d8", 1, 2}, {"RST 00H", 0, 4},
	{"RET Z", 0, 2}, {"RET", 0, 4}, {"JP Z,a16", 2, 3}, {"PREFIX CB", 1, 2},
	{"CALL Z,a16", 2, 3}, {"CALL a16", 2, 6}, {"ADC A,d8", 1, 2}, {"RST 08H", 0, 4},

	{"RET NC", 0, 2}, {"POP DE", 0, 3}, {"JP NC,a16", 2, 3}, {"ILLEGAL_D3", 0, 1},
	{"CALL NC,a16", 2, 3}, {"PUSH DE", 0, 4}, {"SUB d8", 1, 2}, {"RST 10H", 0, 4},
	{"RET C", 0, 2}, {"RETI", 0, 4}, {"JP C,a16", 2, 3}, {"ILLEGAL_DB", 0, 1},
	{"CALL C,a16", 2, 3}, {"ILLEGAL_DD", 0, 1}, {"SBC A,d8", 1, 2}, {"RST 18H", 0, 4},

	{"LDH (a8),A", 1, 3}, {"POP HL", 0, 3}, {"LD (C),A", 0, 2}, {"ILLEGAL_E3", 0, 1},
	{"ILLEGAL_E4", 0, 1}, {"PUSH HL", 0, 4}, {"AND d8", 1, 2}, {"RST 20H", 0, 4},
	{"ADD SP,r8", 1, 4}, {"JP (HL)", 0, 1}, {"LD (a16),A", 2, 4}, {"ILLEGAL_EB", 0, 1},
	{"ILLEGAL_EC", 0, 1}, {"ILLEGAL_ED", 0, 1}, {"XOR d8", 1, 2}, {"RST 28H", 0, 4},

	{"LDH A,(a8)", 1, 3}, {"POP AF", 0, 3}, {"LD A,(C)", 0, 2}, {"DI", 0, 1},
	{"ILLEGAL_F4", 0, 1}, {"PUSH AF", 0, 4}, {"OR d8", 1, 2}, {"RST 30H", 0, 4},
	{"LD HL,SP+r8", 1, 3}, {"LD SP,HL", 0, 2}, {"LD A,(a16)", 2, 4}, {"EI", 0, 1},
	{"ILLEGAL_FC", 0, 1}, {"ILLEGAL_FD", 0, 1}, {"CP d8", 1, 2}, {"RST 38H", 0, 4},
}

var opcodeNamesCB = [...]string{
	"RLC B", "RLC C", "RLC D", "RLC E", "RLC H", "RLC L", "RLC (HL)", "RLC A", "RRC B", "RRC C", "RRC D", "RRC E", "RRC H", "RRC L", "RRC (HL)", "RRC A",
	"RL B", "RL C", "RL D", "RL E", "RL H", "RL L", "RL (HL)", "RL A", "RR B", "RR C", "RR D", "RR E", "RR H", "RR L", "RR (HL)", "RR A",
	"SLA B", "SLA C", "SLA D", "SLA E", "SLA H", "SLA L", "SLA (HL)", "SLA A", "SRA B", "SRA C", "SRA D", "SRA E", "SRA H", "SRA L", "SRA (HL)", "SRA A",
	"SWAP B", "SWAP C", "SWAP D", "SWAP E", "SWAP H", "SWAP L", "SWAP (HL)", "SWAP A", "SRL B", "SRL C", "SRL D", "SRL E", "SRL H", "SRL L", "SRL (HL)", "SRL A",
	"BIT 0,B", "BIT 0,C", "BIT 0,D", "BIT 0,E", "BIT 0,H", "BIT 0,L", "BIT 0,(HL)", "BIT 0,A", "BIT 1,B", "BIT 1,C", "BIT 1,D", "BIT 1,E", "BIT 1,H", "BIT 1,L", "BIT 1,(HL)", "BIT 1,A",
	"BIT 2,B", "BIT 2,C", "BIT 2,D", "BIT 2,E", "BIT 2,H", "BIT 2,L", "BIT 2,(HL)", "BIT 2,A", "BIT 3,B", "BIT 3,C", "BIT 3,D", "BIT 3,E", "BIT 3,H", "BIT 3,L", "BIT 3,(HL)", "BIT 3,A",
	"BIT 4,B", "BIT 4,C", "BIT 4,D", "BIT 4,E", "BIT 4,H", "BIT 4,L", "BIT 4,(HL)", "BIT 4,A", "BIT 5,B", "BIT 5,C", "BIT 5,D", "BIT 5,E", "BIT 5,H", "BIT 5,L", "BIT 5,(HL)", "BIT 5,A",
	"BIT 6,B", "BIT 6,C", "BIT 6,D", "BIT 6,E", "BIT 6,H", "BIT 6,L", "BIT 6,(HL)", "BIT 6,A", "BIT 7,B", "BIT 7,C", "BIT 7,D", "BIT 7,E", "BIT 7,H", "BIT 7,L", "BIT 7,(HL)", "BIT 7,A",
	"RES 0,B", "RES 0,C", "RES 0,D", "RES 0,E", "RES 0,H", "RES 0,L", "RES 0,(HL)", "RES 0,A", "RES 1,B", "RES 1,C", "RES 1,D", "RES 1,E", "RES 1,H", "RES 1,L", "RES 1,(HL)", "RES 1,A",
	"RES 2,B", "RES 2,C", "RES 2,D", "RES 2,E", "RES 2,H", "RES 2,L", "RES 2,(HL)", "RES 2,A", "RES 3,B", "RES 3,C", "RES 3,D", "RES 3,E", "RES 3,H", "RES 3,L", "RES 3,(HL)", "RES 3,A",
	"RES 4,B", "RES 4,C", "RES 4,D", "RES 4,E", "RES 4,H", "RES 4,L", "RES 4,(HL)", "RES 4,A", "RES 5,B", "RES 5,C", "RES 5,D", "RES 5,E", "RES 5,H", "RES 5,L", "RES 5,(HL)", "RES 5,A",
	"RES 6,B", "RES 6,C", "RES 6,D", "RES 6,E", "RES 6,H", "RES 6,L", "RES 6,(HL)", "RES 6,A", "RES 7,B", "RES 7,C", "RES 7,D", "RES 7,E", "RES 7,H", "RES 7,L", "RES 7,(HL)", "RES 7,A",
	"SET 0,B", "SET 0,C", "SET 0,D", "SET 0,E", "SET 0,H", "SET 0,L", "SET 0,(HL)", "SET 0,A", "SET 1,B", "SET 1,C", "SET 1,D", "SET 1,E", "SET 1,H", "SET 1,L", "SET 1,(HL)", "SET 1,A",
	"SET 2,B", "SET 2,C", "SET 2,D", "SET 2,E", "SET 2,H", "SET 2,L", "SET 2,(HL)", "SET 2,A", "SET 3,B", "SET 3,C", "SET 3,D", "SET 3,E", "SET 3,H", "SET 3,L", "SET 3,(HL)", "SET 3,A",
	"SET 4,B", "SET 4,C", "SET 4,D", "SET 4,E", "SET 4,H", "SET 4,L", "SET 4,(HL)", "SET 4,A", "SET 5,B", "SET 5,C", "SET 5,D", "SET 5,E", "SET 5,H", "SET 5,L", "SET 5,(HL)", "SET 5,A",
	"SET 6,B", "SET 6,C", "SET 6,D", "SET 6,E", "SET 6,H", "SET 6,L", "SET 6,(HL)", "SET 6,A", "SET 7,B", "SET 7,C", "SET 7,D", "SET 7,E", "SET 7,H", "SET 7,L", "SET 7,(HL)", "SET 7,A",
}
