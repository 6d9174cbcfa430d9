package file

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

const (
	frameMagic   = "GOCH"
	frameVersion = byte(1)
	headerSize   = len(frameMagic) + 1 + 8 + 16
)

var ErrCorruptFrame = errors.New("corrupt transport frame")

// values travel inside an envelope so that gob keeps their concrete type
type envelope struct {
	V interface{}
}

//Register registers a concrete type that may cross the worker boundary inside an interface value
func Register(value interface{}) {
	gob.Register(value)
}

func init() {
	Register([]interface{}{})
	Register([][]interface{}{})
	Register(map[string]interface{}{})
	Register([]float32{})
	Register([]int32{})
	Register([]uint64{})
}

//Marshal gob encodes v
func Marshal(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(&envelope{V: v}); err != nil {
		return nil, errors.Wrapf(err, "encode value of type %T", v)
	}
	return buf.Bytes(), nil
}

//Unmarshal decodes a value produced by Marshal
func Unmarshal(b []byte) (interface{}, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "decode value")
	}
	return env.V, nil
}

//WriteFrame writes body prefixed with a header carrying its length and murmur3 checksum
func WriteFrame(w io.Writer, body []byte) error {
	header := make([]byte, headerSize)
	copy(header, frameMagic)
	header[4] = frameVersion
	binary.BigEndian.PutUint64(header[5:13], uint64(len(body)))
	h1, h2 := murmur3.Sum128(body)
	binary.BigEndian.PutUint64(header[13:21], h1)
	binary.BigEndian.PutUint64(header[21:29], h2)
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

//ReadFrame reads and verifies a frame written by WriteFrame
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(ErrCorruptFrame, err.Error())
	}
	if string(header[:4]) != frameMagic {
		return nil, errors.Wrap(ErrCorruptFrame, "bad magic")
	}
	if header[4] != frameVersion {
		return nil, errors.Wrapf(ErrCorruptFrame, "unsupported version %d", header[4])
	}
	size := binary.BigEndian.Uint64(header[5:13])
	if size > math.MaxInt64 {
		return nil, errors.Wrapf(ErrCorruptFrame, "bad length %d", size)
	}
	// the buffer grows with the bytes actually present, never with the claimed length
	body, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFrame, "read body: %v", err)
	}
	if uint64(len(body)) != size {
		return nil, errors.Wrapf(ErrCorruptFrame, "bad length %d, body has %d bytes", size, len(body))
	}
	h1, h2 := murmur3.Sum128(body)
	if h1 != binary.BigEndian.Uint64(header[13:21]) || h2 != binary.BigEndian.Uint64(header[21:29]) {
		return nil, errors.Wrap(ErrCorruptFrame, "checksum mismatch")
	}
	return body, nil
}

//WriteValue encodes v into a new file
func WriteValue(fs FileStorage, fileName string, v interface{}) (err error) {
	body, err := Marshal(v)
	if err != nil {
		return err
	}
	w, err := fs.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %v", fileName)
	}
	defer func() {
		if e := w.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "close %v", fileName)
		}
	}()
	bw := bufio.NewWriter(w)
	if err = WriteFrame(bw, body); err != nil {
		return errors.Wrapf(err, "write %v", fileName)
	}
	return bw.Flush()
}

//ReadValue decodes the value stored in a file written by WriteValue
func ReadValue(fs FileStorage, fileName string) (interface{}, error) {
	r, err := fs.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", fileName)
	}
	defer r.Close()
	body, err := ReadFrame(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", fileName)
	}
	return Unmarshal(body)
}
