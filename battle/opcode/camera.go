package opcode

// CameraRet terminates both camera dialects.
const CameraRet = 0xFF

// cameraShared holds opcodes with the same layout in the position and direction dialects.
func cameraShared() [][]entry {
	return [][]entry{
		op(0xD5, "SPEED", u16("speed")),
		op(0xDD, "ACTOR", u8("actor")),
		op(0xDE, "EASE", u8("ease")),
		op(0xE2, "SHAKE", u8("amount")),
		op(0xF4, "WAIT_END"),
		op(0xF5, "WAIT", u8("frames")),
		op(0xFE, "MODE", u8("mode"), ifNe(i16("x"), "mode", 0), ifNe(i16("y"), "mode", 0)),
		ret(CameraRet, "RET"),
	}
}

// CameraPosition is the camera-position dialect.
var CameraPosition = build("camera-position", append(cameraShared(),
	op(0xD6, "POS_RESET"),
	op(0xD7, "POS_BONE", u8("bone"), u8("frames")),
	op(0xD8, "POS_MOVE_TARGET", cat([]Operand{u8("frames")}, xyz(""))...),
	op(0xD9, "POS_LOCK"),
	op(0xDA, "POS_UNLOCK"),
	op(0xDB, "POS_FOLLOW_ON"),
	op(0xDC, "POS_FOLLOW_OFF"),
	op(0xDF, "POS_CLEAR"),
	op(0xE0, "POS_ACTOR_OFFSET", u8("actor"), u8("bone")),
	op(0xE1, "POS_STOP"),
	op(0xE3, "POS_PATH", cat(xyz("from_"), xyz("to_"), []Operand{u8("frames")})...),
	op(0xE4, "POS_ATTACKER_MOVE", cat([]Operand{u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xE5, "POS_TARGET_MOVE", cat([]Operand{u8("actor"), u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xE6, "POS_ORBIT", cat([]Operand{u8("frames")}, xyz(""), []Operand{u8("speed")})...),
	op(0xE7, "POS_ACTOR_MOVE", cat([]Operand{u8("actor"), u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xF0, "POS_ZOOM", cat([]Operand{u8("actor"), u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xF7, "POS_SMOOTH", cat([]Operand{u8("actor"), u8("frames")}, xyz(""))...),
	op(0xF8, "POS_SPLINE", cat(xyz("a_"), xyz("b_"), []Operand{i16("tension"), i16("bias"), u8("frames")})...),
	op(0xF9, "POS_SET", xyz("")...),
	op(0xFA, "POS_ZOOM_RESET"),
)...)

// CameraDirection is the camera-direction (focus point) dialect.
var CameraDirection = build("camera-direction", append(cameraShared(),
	op(0xD6, "DIR_RESET"),
	op(0xD8, "DIR_MOVE_TARGET", cat([]Operand{u8("frames")}, xyz(""))...),
	op(0xD9, "DIR_LOCK"),
	op(0xDA, "DIR_UNLOCK"),
	op(0xDB, "DIR_FOLLOW_ON"),
	op(0xDC, "DIR_FOLLOW_OFF"),
	op(0xDF, "DIR_CLEAR"),
	op(0xE0, "DIR_ACTOR_OFFSET", u8("actor"), u8("bone")),
	op(0xE1, "DIR_STOP"),
	op(0xE3, "DIR_PATH", cat(xyz("from_"), xyz("to_"), []Operand{u8("frames")})...),
	op(0xE4, "DIR_ATTACKER_FOCUS", cat([]Operand{u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xE5, "DIR_TARGET_FOCUS", cat([]Operand{u8("actor"), u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xE8, "DIR_ACTOR_FOCUS", cat([]Operand{u8("actor"), u8("frames")}, xyz(""), []Operand{u8("mode")})...),
	op(0xEC, "DIR_ROLL", i16("angle"), u8("frames")),
	op(0xF8, "DIR_SPLINE", cat(xyz("a_"), xyz("b_"), []Operand{i16("tension"), i16("bias"), u8("frames")})...),
	op(0xF9, "DIR_SET", xyz("")...),
)...)
