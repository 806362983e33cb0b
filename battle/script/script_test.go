package script

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/opcode"
)

func TestOffsetZeroIsEmpty(t *testing.T) {
	s := Resolve([]byte{0x00, 0x00}, 0, opcode.Action, battle.DefaultOptions())
	if !s.Empty() || s.Failed() {
		t.Fatalf("expected empty script, got %+v", s)
	}
	// offset 0 is a sentinel even when a valid opcode sits there
	s = Resolve([]byte{0xEE}, 0, opcode.Action, battle.DefaultOptions())
	if !s.Empty() {
		t.Fatalf("offset 0 must be empty, got %+v", s)
	}
}

func TestSentinels(t *testing.T) {
	buf := []byte{0x01, 0x00, 0xEE}
	for _, off := range []int{0, 1, 3, 100, -4} {
		if s := Resolve(buf, off, opcode.Action, battle.DefaultOptions()); !s.Empty() {
			t.Errorf("offset %d: expected empty script, got %+v", off, s)
		}
	}
}

func TestTerminatorThenPadding(t *testing.T) {
	// a RET at the start of the script followed by three pad bytes
	buf := []byte{0x55, 0xEE, 0x00, 0x00, 0x00}
	s := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	if len(s.Instructions) != 1 || !s.Instructions[0].Terminal || s.Instructions[0].Name != "RET" {
		t.Fatalf("expected single RET, got %+v", s.Instructions)
	}
	if s.End != len(buf) {
		t.Errorf("End = %d, want %d (padding consumed)", s.End, len(buf))
	}
	if s.Size()+3 != s.End-s.Offset {
		t.Errorf("byte accounting: size %d + 3 pad != %d", s.Size(), s.End-s.Offset)
	}
}

func TestStopsAtFirstTerminator(t *testing.T) {
	// ANIM 3, WAIT 4, RET2, pad, next script RET
	buf := []byte{0xFF, 0x03, 0xBA, 0x04, 0xFF, 0x00, 0xEE}
	s := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	names := []string{}
	for _, in := range s.Instructions {
		names = append(names, in.Name)
	}
	if strings.Join(names, " ") != "ANIM WAIT RET2" {
		t.Fatalf("instructions = %v", names)
	}
	if s.End != 6 {
		t.Errorf("End = %d, want 6", s.End)
	}
	for i, in := range s.Instructions {
		if in.Terminal != (i == len(s.Instructions)-1) {
			t.Errorf("terminator at position %d", i)
		}
	}
}

func TestUnknownOpcodesKeepAccounting(t *testing.T) {
	buf := []byte{0x00, 0x97, 0x99, 0xEE}
	s := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	if s.Failed() || len(s.Instructions) != 3 {
		t.Fatalf("unexpected script %+v", s)
	}
	if !s.Instructions[0].Unknown || !s.Instructions[1].Unknown {
		t.Error("expected two unknown instructions")
	}
	if s.End != 4 {
		t.Errorf("End = %d, want 4", s.End)
	}
}

func TestNoTerminatorIsMalformed(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02, 0x03}
	s := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	if !s.Failed() {
		t.Fatalf("expected error marker, got %+v", s)
	}
	if !strings.Contains(s.Instructions[0].Error, battle.ErrMalformedScript.Error()) {
		t.Errorf("error = %q", s.Instructions[0].Error)
	}
}

func TestTruncatedOperandIsOutOfRange(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x90, 0x03}
	s := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	if !s.Failed() {
		t.Fatalf("expected error marker, got %+v", s)
	}
	if !strings.Contains(s.Instructions[0].Error, battle.ErrOutOfRange.Error()) {
		t.Errorf("error = %q", s.Instructions[0].Error)
	}
	if s.Instructions[0].Offset != 1 {
		t.Errorf("marker offset = %d, want 1", s.Instructions[0].Offset)
	}
}

func TestStepLimit(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x01, 0x01, 0xEE}
	s := Resolve(buf, 1, opcode.Action, battle.Options{MaxSteps: 2})
	if !s.Failed() {
		t.Fatalf("expected step limit failure, got %+v", s)
	}
	s = Resolve(buf, 1, opcode.Action, battle.Options{MaxSteps: 4})
	if s.Failed() || len(s.Instructions) != 4 {
		t.Fatalf("4 steps should be enough, got %+v", s)
	}
}

func TestCameraScript(t *testing.T) {
	// WAIT 2, POS_SET 1,2,3, RET, pad
	buf := []byte{0x00, 0xF5, 0x02, 0xF9, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0xFF, 0x00, 0x00}
	s := Resolve(buf, 1, opcode.CameraPosition, battle.DefaultOptions())
	if s.Failed() || len(s.Instructions) != 3 {
		t.Fatalf("unexpected script %+v", s)
	}
	if s.Instructions[1].Name != "POS_SET" {
		t.Errorf("second instruction = %s", s.Instructions[1].Name)
	}
	if s.End != len(buf) {
		t.Errorf("End = %d, want %d", s.End, len(buf))
	}
	// the direction dialect has no POS_SET
	d := Resolve(buf, 1, opcode.CameraDirection, battle.DefaultOptions())
	if d.Instructions[1].Name != "DIR_SET" {
		t.Errorf("direction dialect decoded %s", d.Instructions[1].Name)
	}
}

func TestDeterministic(t *testing.T) {
	buf := []byte{0x00, 0x90, 0x01, 0x02, 0x03, 0xC1, 0xFF, 0x01, 0x00, 0x05, 0xEE, 0x00}
	a := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	b := Resolve(buf, 1, opcode.Action, battle.DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("decode not deterministic:\n%+v\n%+v", a, b)
	}
	at := a.Offset
	for _, in := range a.Instructions {
		if in.Offset != at {
			t.Fatalf("instruction at %d, want %d", in.Offset, at)
		}
		at += in.Length
	}
	for at < a.End {
		if buf[at] != 0 {
			t.Fatalf("non-zero byte 0x%02x skipped as padding at %d", buf[at], at)
		}
		at++
	}
	if at != len(buf) {
		t.Errorf("accounting ended at %d, want %d", at, len(buf))
	}
}

func TestEmptyScriptEncodesEmptyList(t *testing.T) {
	s := Resolve([]byte{0x00, 0x00}, 0, opcode.Action, battle.DefaultOptions())
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(raw), `{"offset":0,"end":0,"instructions":[]}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}
