package mapper

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nevisdale/nescore/internal/cartridge"
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/memory"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrUnsupported = errors.New("unsupported mapper")

// Host is the part of the console a mapper may reach: CPU memory, where
// cartridge RAM at $6000-$7FFF lives, and the interrupt line.
type Host interface {
	irq.Line
	CPUMemory() *memory.Region
}

// Mapper translates cartridge space accesses to bank offsets in the image.
type Mapper interface {
	Name() string

	// LoadROM installs the initial bank layout. It is called once after
	// construction.
	LoadROM()
	// Reset restores the default bank selection.
	Reset()

	// ReadPRG and WritePRG serve CPU addresses $4020-$FFFF.
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, data uint8)

	// ReadCHR and WriteCHR serve picture unit addresses $0000-$1FFF.
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, data uint8)

	// Mirroring is the current nametable layout, either the image's or an
	// override written by the program.
	Mirroring() cartridge.Mirroring
}

// ScanlineCounter is implemented by mappers that count rendered scanlines.
// The picture unit calls Scanline once per line while rendering is enabled.
type ScanlineCounter interface {
	Scanline()
}

type constructor func(img *cartridge.Image, host Host) Mapper

type entry struct {
	name string
	ctor constructor
}

var (
	registryMu sync.RWMutex
	registry   = map[uint8]entry{}
)

// Register makes a mapper available under id. Registering the same id twice
// panics.
func Register(id uint8, name string, ctor func(img *cartridge.Image, host Host) Mapper) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper: id %d registered twice", id))
	}
	registry[id] = entry{name: name, ctor: ctor}
}

// New creates the mapper selected by the image header. The banks are not
// installed until LoadROM is called.
func New(img *cartridge.Image, host Host) (Mapper, error) {
	registryMu.RLock()
	e, ok := registry[img.Mapper()]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupported, img.Mapper())
	}
	return e.ctor(img, host), nil
}

// Supported lists the registered mapper ids in ascending order.
func Supported() []uint8 {
	registryMu.RLock()
	ids := maps.Keys(registry)
	registryMu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Name returns the registered name of id, or "" when unsupported.
func Name(id uint8) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[id].name
}
