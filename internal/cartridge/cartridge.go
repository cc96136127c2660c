package cartridge

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	rcart "github.com/retroenv/retrogolib/nes/cartridge"
)

const (
	inesMagic        = 0x1a53454e
	headerSizeBytes  = 16
	trainerSizeBytes = 512
	PRGBankSize      = 0x4000
	CHRBankSize      = 0x2000
)

var (
	ErrBadHeader = errors.New("bad header")
	ErrNoProgram = errors.New("no program banks")
	ErrTruncated = errors.New("truncated bank data")
	ErrNoROM     = errors.New("archive holds no .nes file")
)

// LoadError reports a cartridge that could not be installed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cartridge: %s", e.Err)
	}
	return fmt.Sprintf("cartridge: %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type header struct {
	Magic      uint32
	PrgRomSize uint8
	ChrRomSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

func (h header) isNES20() bool {
	return h.Flags7&0x0c == 0x08
}

// older dumping tools wrote a signature into the padding bytes, which
// corrupts the upper nibble of the mapper id
func (h header) hasGarbage() bool {
	if h.isNES20() {
		return false
	}
	if h.Flags10 != 0 {
		return true
	}
	for _, b := range h.Padding {
		if b != 0 {
			return true
		}
	}
	return false
}

func (h header) mapperID() uint8 {
	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	if h.hasGarbage() {
		return h.Flags6 >> 4
	}
	return (h.Flags7 & 0xf0) | (h.Flags6 >> 4)
}

func (h header) mirroring() Mirroring {
	if h.Flags6&0x8 != 0 {
		return FourScreen
	}
	if h.Flags6&0x1 != 0 {
		return Vertical
	}
	return Horizontal
}

// Image is a validated cartridge. It is never modified after Parse returns.
type Image struct {
	prg       []uint8
	chr       []uint8
	mapperID  uint8
	mirroring Mirroring
	battery   bool
	trainer   bool
	nes20     bool
}

// Load reads a .nes file, or a .zip holding one, and parses it.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	img, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return img, nil
}

// Parse validates an iNES image and returns its banks. Zip archives are
// accepted, the first .nes entry is used.
func Parse(data []uint8) (*Image, error) {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		inner, err := unzip(data)
		if err != nil {
			return nil, &LoadError{Err: err}
		}
		data = inner
	}

	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %s", ErrBadHeader, err)}
	}
	if h.Magic != inesMagic {
		return nil, &LoadError{Err: fmt.Errorf("%w: invalid magic", ErrBadHeader)}
	}
	if h.PrgRomSize == 0 {
		return nil, &LoadError{Err: ErrNoProgram}
	}

	// the third bit of flags6 is the trainer flag
	trainer := h.Flags6&0x4 != 0
	want := headerSizeBytes + int(h.PrgRomSize)*PRGBankSize + int(h.ChrRomSize)*CHRBankSize
	if trainer {
		want += trainerSizeBytes
	}
	if len(data) < want {
		return nil, &LoadError{Err: fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncated, want, len(data))}
	}

	// the bank reader gets a trainer-less copy
	body := data[headerSizeBytes:want]
	if trainer {
		body = body[trainerSizeBytes:]
	}
	normalized := make([]uint8, 0, headerSizeBytes+len(body))
	normalized = append(normalized, data[:headerSizeBytes]...)
	normalized[6] &^= 0x4
	normalized = append(normalized, body...)

	rc, err := rcart.LoadFile(bytes.NewReader(normalized))
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %s", ErrBadHeader, err)}
	}
	if len(rc.PRG) != int(h.PrgRomSize)*PRGBankSize {
		return nil, &LoadError{Err: fmt.Errorf("%w: program size does not match the header", ErrTruncated)}
	}
	var chr []uint8
	if h.ChrRomSize > 0 {
		if len(rc.CHR) != int(h.ChrRomSize)*CHRBankSize {
			return nil, &LoadError{Err: fmt.Errorf("%w: character size does not match the header", ErrTruncated)}
		}
		chr = rc.CHR
	}

	return &Image{
		prg:       rc.PRG,
		chr:       chr,
		mapperID:  h.mapperID(),
		mirroring: h.mirroring(),
		battery:   h.Flags6&0x2 != 0,
		trainer:   trainer,
		nes20:     h.isNES20(),
	}, nil
}

func unzip(data []uint8) ([]uint8, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".nes") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrNoROM
}

// PRG returns the program banks. The slice is shared with the image and
// must not be modified.
func (c *Image) PRG() []uint8 {
	return c.prg
}

// CHR returns the character banks. It is empty for boards with CHR-RAM.
// Like PRG, the result is read-only.
func (c *Image) CHR() []uint8 {
	return c.chr
}

func (c *Image) PRGBanks() int {
	return len(c.prg) / PRGBankSize
}

func (c *Image) CHRBanks() int {
	return len(c.chr) / CHRBankSize
}

func (c *Image) HasCHRRAM() bool {
	return len(c.chr) == 0
}

func (c *Image) Mapper() uint8 {
	return c.mapperID
}

func (c *Image) Mirroring() Mirroring {
	return c.mirroring
}

func (c *Image) Battery() bool {
	return c.battery
}

func (c *Image) Trainer() bool {
	return c.trainer
}

func (c *Image) NES20() bool {
	return c.nes20
}

// Valid reports whether the image holds at least one program bank.
func (c *Image) Valid() bool {
	return c != nil && len(c.prg) >= PRGBankSize
}

func (c *Image) String() string {
	return fmt.Sprintf("mapper %d, %d PRG x16K, %d CHR x8K, %s mirroring", c.mapperID, c.PRGBanks(), c.CHRBanks(), c.mirroring)
}

// New builds an image from raw banks. prg must be a non-empty multiple of
// PRGBankSize and chr a multiple of CHRBankSize. Both are copied.
func New(prg, chr []uint8, mapperID uint8, mirroring Mirroring) (*Image, error) {
	if len(prg) == 0 {
		return nil, &LoadError{Err: ErrNoProgram}
	}
	if len(prg)%PRGBankSize != 0 || len(chr)%CHRBankSize != 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: bank data is not a whole number of banks", ErrTruncated)}
	}
	return &Image{
		prg:       append([]uint8(nil), prg...),
		chr:       append([]uint8(nil), chr...),
		mapperID:  mapperID,
		mirroring: mirroring,
	}, nil
}

// Bytes encodes the image as an iNES file.
func (c *Image) Bytes() []uint8 {
	h := header{
		Magic:      inesMagic,
		PrgRomSize: uint8(c.PRGBanks()),
		ChrRomSize: uint8(c.CHRBanks()),
		Flags6:     c.mapperID << 4,
		Flags7:     c.mapperID & 0xf0,
	}
	switch c.mirroring {
	case Vertical:
		h.Flags6 |= 0x1
	case FourScreen:
		h.Flags6 |= 0x8
	}
	if c.battery {
		h.Flags6 |= 0x2
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(c.prg)
	buf.Write(c.chr)
	return buf.Bytes()
}
