package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/zboralski/battledump/battle/ab"
)

// Format selects the artifact encoding.
type Format int

const (
	JSON Format = iota
	MsgPack
)

// ParseFormat maps a format name ("json", "msgpack") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSON, nil
	case "msgpack", "mp":
		return MsgPack, nil
	}
	return JSON, fmt.Errorf("unknown output format %q", s)
}

func (f Format) String() string {
	if f == MsgPack {
		return "msgpack"
	}
	return "json"
}

// Ext is the file extension for artifacts in f.
func (f Format) Ext() string {
	if f == MsgPack {
		return ".msgpack"
	}
	return ".json"
}

// Encode serializes v. Map keys are sorted in both formats, so identical
// input gives identical bytes.
func (f Format) Encode(v any) ([]byte, error) {
	switch f {
	case MsgPack:
		var bb bytes.Buffer
		enc := msgpack.GetEncoder()
		enc.ResetDict(&bb, nil)
		enc.SetSortMapKeys(true)
		err := enc.Encode(v)
		msgpack.PutEncoder(enc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
		}
		return bb.Bytes(), nil
	case JSON:
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T to JSON: %w", v, err)
		}
		return append(raw, '\n'), nil
	default:
		panic("unsupported encoding")
	}
}

// Decode deserializes buf into the value pointed to by v.
func (f Format) Decode(buf []byte, v any) error {
	switch f {
	case MsgPack:
		dec := msgpack.GetDecoder()
		dec.ResetDict(bytes.NewReader(buf), nil)
		err := dec.Decode(v)
		msgpack.PutDecoder(dec)
		if err != nil {
			return fmt.Errorf("failed to decode msgpack into %T: %w", v, err)
		}
		return nil
	case JSON:
		if err := json.Unmarshal(buf, v); err != nil {
			return fmt.Errorf("failed to decode JSON into %T: %w", v, err)
		}
		return nil
	default:
		panic("unsupported encoding")
	}
}

// Write encodes v to path, creating parent directories as needed.
func Write(path string, v any, f Format) error {
	buf, err := f.Encode(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// Read decodes the artifact at path into v.
func Read(path string, v any, f Format) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return f.Decode(buf, v)
}

var (
	actionsBucket = []byte("actions")
	cameraBucket  = []byte("camera")
	cameraKey     = []byte("corpus")
)

// Archive is a bbolt file holding a run's records in msgpack form: one key
// per action-sequence file, and the whole camera corpus under one key.
type Archive struct {
	bdb *bbolt.DB
}

// OpenArchive opens or creates the archive at path.
func OpenArchive(path string) (*Archive, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{actionsBucket, cameraBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("archive: %w", err)
	}
	return &Archive{bdb: bdb}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.bdb.Close()
}

// PutActions stores every record of c, replacing earlier entries with the
// same file name.
func (a *Archive) PutActions(c ActionCorpus) error {
	return a.bdb.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(actionsBucket)
		for _, name := range c.Names() {
			v, err := MsgPack.Encode(c[name])
			if err != nil {
				return err
			}
			if err := b.Put([]byte(name), v); err != nil {
				return fmt.Errorf("archive: %s: %w", name, err)
			}
		}
		return nil
	})
}

// PutCameras stores the camera corpus.
func (a *Archive) PutCameras(c *CameraCorpus) error {
	v, err := MsgPack.Encode(c)
	if err != nil {
		return err
	}
	return a.bdb.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cameraBucket).Put(cameraKey, v)
	})
}

// Action returns the stored record for name, or nil if there is none.
func (a *Archive) Action(name string) (*ab.Record, error) {
	var r *ab.Record
	err := a.bdb.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(actionsBucket).Get([]byte(name))
		if v == nil {
			return nil
		}
		r = new(ab.Record)
		return MsgPack.Decode(v, r)
	})
	return r, err
}

// Actions returns every stored action-sequence record.
func (a *Archive) Actions() (ActionCorpus, error) {
	out := make(ActionCorpus)
	err := a.bdb.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(actionsBucket).ForEach(func(k, v []byte) error {
			r := new(ab.Record)
			if err := MsgPack.Decode(v, r); err != nil {
				return fmt.Errorf("archive: %s: %w", k, err)
			}
			out[string(k)] = r
			return nil
		})
	})
	return out, err
}

// Cameras returns the stored camera corpus, or nil if there is none.
func (a *Archive) Cameras() (*CameraCorpus, error) {
	var c *CameraCorpus
	err := a.bdb.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(cameraBucket).Get(cameraKey)
		if v == nil {
			return nil
		}
		c = new(CameraCorpus)
		return MsgPack.Decode(v, c)
	})
	return c, err
}
