package opcode

// Action-sequence terminators.
const (
	ActionRet  = 0xEE
	ActionRet2 = 0xFF
)

// AnimLimit is the first opcode that is a command rather than an animation index.
const AnimLimit = 0x8E

// Action is the action-sequence instruction set. Opcodes below AnimLimit play
// the animation with that index.
var Action = build("action",
	span(0x00, AnimLimit-1, Info{Name: "ANIM", Implicit: "anim"}),
	op(0x8E, "SYNC"),
	op(0x8F, "NOP"),
	op(0x90, "SOUND", u8("frame"), u16("sound")),
	op(0x91, "HIT_DELAY", u16("frames")),
	op(0x92, "EFFECT", u8("effect")),
	op(0x93, "CAMERA", u8("camera")),
	op(0x94, "ADVANCE", i16("distance")),
	op(0x95, "RETREAT", i16("distance")),
	op(0x96, "FLASH", u8("frames")),
	op(0x98, "HOLD", u8("frames"), u8("anim")),
	op(0x9A, "MOVE_TO", cat(xyz(""), []Operand{u8("frames")})...),
	op(0x9E, "SPAWN", u8("model"), u8("bone")),
	op(0xA0, "LOAD_EFFECT", u8("effect")),
	op(0xA1, "ALPHA", u8("alpha")),
	op(0xA2, "COLOR", u8("r"), u8("g"), u8("b")),
	op(0xA5, "SET_POS", xyz("")...),
	op(0xA8, "ROTATE", u8("frames"), i16("angle")),
	op(0xA9, "TURN", u8("frames"), i16("angle"), u8("target")),
	op(0xAA, "SHOW_DAMAGE"),
	op(0xAD, "JUMP", u8("frames"), i16("height")),
	op(0xB0, "JUMP_BACK", u8("frames")),
	op(0xB4, "SCALE", u16("scale"), u8("frames")),
	op(0xBA, "WAIT", u8("frames")),
	op(0xBC, "WEAPON", u8("visible")),
	op(0xC1, "SPELL", u8("kind"), ifEq(u16("spell"), "kind", 0xFF)),
	op(0xC3, "DUST", u8("count")),
	op(0xC6, "SHAKE", u8("amount"), u8("frames")),
	op(0xC9, "SET_ORIGIN", u24("origin")),
	op(0xD0, "MOVE", i16("x"), i16("z"), u8("frames")),
	op(0xD1, "MOVE_TARGET", i16("distance"), i8("height"), u8("frames")),
	op(0xD8, "PLAY_SOUND", u16("sound"), u8("frame")),
	op(0xE0, "RESET_POS"),
	op(0xE5, "IDLE_ANIM", u8("anim")),
	op(0xE8, "SPEED", u8("speed")),
	op(0xEA, "SHADOW_ON"),
	op(0xEB, "SHADOW_OFF"),
	op(0xEC, "FACE_TARGET"),
	ret(ActionRet, "RET"),
	op(0xF0, "SET_DIR", u8("dir")),
	op(0xF3, "WAIT_ANIM"),
	op(0xF4, "REPEAT", u8("count")),
	op(0xF6, "DEATH"),
	op(0xF7, "VANISH", u8("frames")),
	op(0xFA, "IDLE"),
	op(0xFC, "ACTOR_ROT", u8("actor")),
	op(0xFE, "LOOP", u8("mode"), ifEq(u8("count"), "mode", 0xC0)),
	ret(ActionRet2, "RET2"),
)
