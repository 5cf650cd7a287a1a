package retro

/*
#include "bridge.h"
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/ryanmagoon/gamelord/pixel"
	"github.com/ryanmagoon/gamelord/romloader"
)

// SystemInfo is the immutable metadata a core reports about itself.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string // pipe-separated, e.g. "sms|gg|bin"
	NeedFullpath    bool
	BlockExtract    bool
}

// Geometry describes the core's display dimensions and aspect ratio.
type Geometry struct {
	BaseWidth   int
	BaseHeight  int
	MaxWidth    int
	MaxHeight   int
	AspectRatio float32
}

// Timing describes the core's frame rate and audio sample rate.
type Timing struct {
	FPS        float64
	SampleRate float64
}

// AVInfo combines geometry and timing. Populated after game load;
// geometry may be overwritten by the core at runtime through
// SET_GEOMETRY.
type AVInfo struct {
	Geometry Geometry
	Timing   Timing
}

// Video regions reported by Region.
const (
	RegionNTSC = 0
	RegionPAL  = 1
)

type coreState int

const (
	stateUnloaded coreState = iota
	stateCoreLoaded
	stateGameLoaded
)

// gameDescriptor is the derived view of loaded content, built once per
// load. The C copies referenced by the core live until the game
// unloads.
type gameDescriptor struct {
	path string
	dir  string
	name string // base name without extension
	ext  string // lowercase, no dot
	size int

	cPath *C.char
	cData unsafe.Pointer
}

// Core hosts a single dynamically loaded libretro core and bridges its
// callbacks into buffered Go state.
//
// Lifecycle calls (LoadCore, LoadGame, UnloadGame, Run, Reset, Destroy)
// must be serialized by the caller. The video, audio and input buffers
// each carry their own lock, so draining output or writing input from
// another goroutine is safe while a frame runs.
type Core struct {
	state coreState
	lib   unsafe.Pointer
	funcs coreFuncs

	sysInfo SystemInfo
	avInfo  AVInfo
	game    *gameDescriptor

	// Selected by the core via SET_PIXEL_FORMAT; 0RGB1555 until then.
	pixFmt pixel.Format

	video frameBuffer
	audio sampleBuffer
	input inputTable

	systemDir  string
	saveDir    string
	cSystemDir *C.char
	cSaveDir   *C.char
}

// New returns an idle Core. Nothing touches the native side until
// LoadCore.
func New() *Core {
	return &Core{}
}

// LoadCore opens the shared object at path, resolves its entry points
// and initializes it. Any previously loaded core (and game) is fully
// torn down first, so calling LoadCore repeatedly is safe.
//
// Registration order is load-bearing: the environment callback is
// installed before retro_init, the remaining callbacks after, since
// cores allocate internal state in init that later registration may
// depend on.
func (c *Core) LoadCore(path string) error {
	c.teardown()

	lib, err := openLib(path)
	if err != nil {
		return err
	}

	funcs, err := resolveFuncs(lib)
	if err != nil {
		closeLib(lib)
		return err
	}

	c.lib = lib
	c.funcs = funcs

	// The core may fire environment queries from inside
	// retro_set_environment, so the callback routing must already
	// point at this instance.
	bindActive(c)

	C.bridge_retro_set_environment(c.funcs.setEnvironment, C.coreEnvironment_cgo)
	C.bridge_retro_init(c.funcs.init)
	C.bridge_retro_set_video_refresh(c.funcs.setVideoRefresh, C.coreVideoRefresh_cgo)
	C.bridge_retro_set_audio_sample(c.funcs.setAudioSample, C.coreAudioSample_cgo)
	C.bridge_retro_set_audio_sample_batch(c.funcs.setAudioSampleBatch, C.coreAudioSampleBatch_cgo)
	C.bridge_retro_set_input_poll(c.funcs.setInputPoll, C.coreInputPoll_cgo)
	C.bridge_retro_set_input_state(c.funcs.setInputState, C.coreInputState_cgo)

	var si C.struct_retro_system_info
	C.bridge_retro_get_system_info(c.funcs.getSystemInfo, &si)
	c.sysInfo = SystemInfo{
		LibraryName:     C.GoString(si.library_name),
		LibraryVersion:  C.GoString(si.library_version),
		ValidExtensions: C.GoString(si.valid_extensions),
		NeedFullpath:    bool(si.need_fullpath),
		BlockExtract:    bool(si.block_extract),
	}

	c.pixFmt = pixel.Format0RGB1555
	c.state = stateCoreLoaded

	log.Printf("retro: loaded core %s %s (extensions: %s, fullpath: %v)",
		c.sysInfo.LibraryName, c.sysInfo.LibraryVersion,
		c.sysInfo.ValidExtensions, c.sysInfo.NeedFullpath)
	return nil
}

// LoadGame reads content at path and hands it to the core. Content is
// always read fully into memory, even for cores that declare
// need_fullpath: they still receive the path, and many use the buffer
// opportunistically, so providing both maximizes compatibility.
// Compressed archives are extracted first unless the core sets
// block_extract.
//
// On rejection the core stays loaded and a GameRejectedError is
// returned.
func (c *Core) LoadGame(path string) error {
	if c.state == stateUnloaded {
		return ErrNoCore
	}
	if c.state == stateGameLoaded {
		c.UnloadGame()
	}

	content, err := romloader.Read(path, c.extensions(), c.sysInfo.BlockExtract)
	if err != nil {
		return fmt.Errorf("retro: read game content: %w", err)
	}

	g := newGameDescriptor(path, content)

	var gi C.struct_retro_game_info
	gi.path = g.cPath
	gi.data = g.cData
	gi.size = C.size_t(g.size)

	if !bool(C.bridge_retro_load_game(c.funcs.loadGame, &gi)) {
		g.free()
		return &GameRejectedError{Path: path}
	}
	c.game = g

	var avi C.struct_retro_system_av_info
	C.bridge_retro_get_system_av_info(c.funcs.getSystemAVInfo, &avi)
	c.avInfo = AVInfo{
		Geometry: Geometry{
			BaseWidth:   int(avi.geometry.base_width),
			BaseHeight:  int(avi.geometry.base_height),
			MaxWidth:    int(avi.geometry.max_width),
			MaxHeight:   int(avi.geometry.max_height),
			AspectRatio: float32(avi.geometry.aspect_ratio),
		},
		Timing: Timing{
			FPS:        float64(avi.timing.fps),
			SampleRate: float64(avi.timing.sample_rate),
		},
	}

	// Plug a joypad into every port the host exposes.
	if c.funcs.opt.setControllerPortDevice != nil {
		for port := 0; port < MaxPorts; port++ {
			C.bridge_retro_set_controller_port_device(
				c.funcs.opt.setControllerPortDevice,
				C.unsigned(port), C.RETRO_DEVICE_JOYPAD)
		}
	}

	c.video.reset()
	c.audio.reset()
	c.state = stateGameLoaded

	log.Printf("retro: loaded game %s (%dx%d @ %.2ffps, %.0fHz)",
		g.name, c.avInfo.Geometry.BaseWidth, c.avInfo.Geometry.BaseHeight,
		c.avInfo.Timing.FPS, c.avInfo.Timing.SampleRate)
	return nil
}

// UnloadGame unloads the current game, keeping the core loaded. No-op
// when no game is loaded.
func (c *Core) UnloadGame() {
	if c.state != stateGameLoaded {
		return
	}
	C.bridge_retro_unload_game(c.funcs.unloadGame)
	if c.game != nil {
		c.game.free()
		c.game = nil
	}
	c.avInfo = AVInfo{}
	c.video.reset()
	c.audio.reset()
	c.input.reset()
	c.state = stateCoreLoaded
}

// Run executes one frame of emulation synchronously. All callback
// activity, including video, audio, input reads and environment
// queries, happens on the calling goroutine inside this call. No-op
// when no game is loaded.
func (c *Core) Run() {
	if c.state != stateGameLoaded {
		return
	}
	C.bridge_retro_run(c.funcs.run)
}

// Reset resets the running game, when the core supports it.
func (c *Core) Reset() {
	if c.state != stateGameLoaded || c.funcs.opt.reset == nil {
		return
	}
	C.bridge_retro_reset(c.funcs.opt.reset)
}

// Destroy tears the whole instance down: game unloaded, core
// deinitialized, library closed. Idempotent and safe on a never-loaded
// Core.
func (c *Core) Destroy() {
	c.teardown()
}

// IsLoaded reports whether both a core and a game are loaded.
func (c *Core) IsLoaded() bool {
	return c.state == stateGameLoaded
}

// SystemInfo returns the loaded core's metadata. ok is false when no
// core is loaded.
func (c *Core) SystemInfo() (info SystemInfo, ok bool) {
	if c.state == stateUnloaded {
		return SystemInfo{}, false
	}
	return c.sysInfo, true
}

// AVInfo returns geometry and timing for the loaded game. ok is false
// when no game is loaded.
func (c *Core) AVInfo() (info AVInfo, ok bool) {
	if c.state != stateGameLoaded {
		return AVInfo{}, false
	}
	return c.avInfo, true
}

// VideoFrame drains the most recent rendered frame. ok is false when
// no new frame has been rendered since the last call. Frames are
// buffered at most one deep: if the consumer falls behind, older
// frames are overwritten, not queued.
func (c *Core) VideoFrame() (frame VideoFrame, ok bool) {
	return c.video.take()
}

// AudioSamples drains all accumulated interleaved stereo samples, or
// nil when none accumulated since the last drain.
func (c *Core) AudioSamples() []int16 {
	return c.audio.drain()
}

// SetInput stores a button value for the given port. Values are 0/1
// for digital buttons. Out-of-range port or button values are ignored.
func (c *Core) SetInput(port, button int, value int16) {
	c.input.set(port, button, value)
}

// SerializeSize returns the byte size of the core's save state, or 0
// when no game is loaded or the core cannot serialize.
func (c *Core) SerializeSize() int {
	if c.state != stateGameLoaded || !c.funcs.opt.canSerialize() {
		return 0
	}
	return int(C.bridge_retro_serialize_size(c.funcs.opt.serializeSize))
}

// SerializeState captures the core's opaque machine state.
func (c *Core) SerializeState() ([]byte, error) {
	if c.state != stateGameLoaded {
		return nil, ErrNoGame
	}
	size := c.SerializeSize()
	if size == 0 {
		return nil, &SerializationError{Op: "serialize", Reason: "state size is zero or unsupported"}
	}

	buf := C.malloc(C.size_t(size))
	defer C.free(buf)
	if !bool(C.bridge_retro_serialize(c.funcs.opt.serialize, buf, C.size_t(size))) {
		return nil, &SerializationError{Op: "serialize", Reason: "core reported failure"}
	}
	return C.GoBytes(buf, C.int(size)), nil
}

// UnserializeState restores previously serialized state. Restore is
// all-or-nothing as determined by the core; a wrong-sized or corrupt
// buffer yields an error with no partial application.
func (c *Core) UnserializeState(data []byte) error {
	if c.state != stateGameLoaded {
		return ErrNoGame
	}
	if !c.funcs.opt.canSerialize() {
		return &SerializationError{Op: "unserialize", Reason: "core does not support save states"}
	}
	if len(data) == 0 {
		return &SerializationError{Op: "unserialize", Reason: "empty state buffer"}
	}
	if !bool(C.bridge_retro_unserialize(c.funcs.opt.unserialize, unsafe.Pointer(&data[0]), C.size_t(len(data)))) {
		return &SerializationError{Op: "unserialize", Reason: "core rejected state"}
	}
	return nil
}

// APIVersion returns the core's reported libretro API version, or 0 if
// the symbol is absent.
func (c *Core) APIVersion() uint {
	if c.state == stateUnloaded || c.funcs.opt.apiVersion == nil {
		return 0
	}
	return uint(C.bridge_retro_api_version(c.funcs.opt.apiVersion))
}

// Region returns RegionNTSC or RegionPAL for the loaded game. Defaults
// to NTSC when the core does not implement the query.
func (c *Core) Region() int {
	if c.state != stateGameLoaded || c.funcs.opt.getRegion == nil {
		return RegionNTSC
	}
	return int(C.bridge_retro_get_region(c.funcs.opt.getRegion))
}

// MemorySize returns the size of a core memory region
// (RETRO_MEMORY_*), or 0 when unavailable.
func (c *Core) MemorySize(id uint) int {
	if c.state != stateGameLoaded || !c.funcs.opt.canMapMemory() {
		return 0
	}
	return int(C.bridge_retro_get_memory_size(c.funcs.opt.getMemorySize, C.unsigned(id)))
}

// MemoryData returns a copy of a core memory region, or nil when the
// region is unavailable. Use with RETRO_MEMORY_SAVE_RAM to persist
// battery saves.
func (c *Core) MemoryData(id uint) []byte {
	if c.state != stateGameLoaded || !c.funcs.opt.canMapMemory() {
		return nil
	}
	ptr := C.bridge_retro_get_memory_data(c.funcs.opt.getMemoryData, C.unsigned(id))
	size := C.bridge_retro_get_memory_size(c.funcs.opt.getMemorySize, C.unsigned(id))
	if ptr == nil || size == 0 {
		return nil
	}
	return C.GoBytes(ptr, C.int(size))
}

// WriteMemory copies data into a core memory region, truncating to the
// region size. Reports whether anything was written. Used to restore
// battery saves before the first frame.
func (c *Core) WriteMemory(id uint, data []byte) bool {
	if len(data) == 0 || c.state != stateGameLoaded || !c.funcs.opt.canMapMemory() {
		return false
	}
	ptr := C.bridge_retro_get_memory_data(c.funcs.opt.getMemoryData, C.unsigned(id))
	size := int(C.bridge_retro_get_memory_size(c.funcs.opt.getMemorySize, C.unsigned(id)))
	if ptr == nil || size == 0 {
		return false
	}
	n := len(data)
	if n > size {
		n = size
	}
	C.memcpy(ptr, unsafe.Pointer(&data[0]), C.size_t(n))
	return true
}

// SetSystemDirectory sets the path handed to cores asking for system
// resources (BIOS files and the like). Defaults to "." when unset.
func (c *Core) SetSystemDirectory(path string) {
	c.systemDir = path
	if c.cSystemDir != nil {
		C.free(unsafe.Pointer(c.cSystemDir))
		c.cSystemDir = nil
	}
}

// SetSaveDirectory sets the path handed to cores asking where to keep
// save data. Defaults to "." when unset.
func (c *Core) SetSaveDirectory(path string) {
	c.saveDir = path
	if c.cSaveDir != nil {
		C.free(unsafe.Pointer(c.cSaveDir))
		c.cSaveDir = nil
	}
}

// systemDirC returns the cached C string for the system directory,
// allocating on first use. The pointer stays valid until the directory
// changes or the Core is destroyed, since cores may hold onto it.
func (c *Core) systemDirC() *C.char {
	if c.cSystemDir == nil {
		c.cSystemDir = C.CString(orDot(c.systemDir))
	}
	return c.cSystemDir
}

func (c *Core) saveDirC() *C.char {
	if c.cSaveDir == nil {
		c.cSaveDir = C.CString(orDot(c.saveDir))
	}
	return c.cSaveDir
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// extensions converts the core's pipe-separated extension list into
// dotted lowercase extensions for the content loader.
func (c *Core) extensions() []string {
	if c.sysInfo.ValidExtensions == "" {
		return nil
	}
	parts := strings.Split(c.sysInfo.ValidExtensions, "|")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		exts = append(exts, "."+strings.ToLower(p))
	}
	return exts
}

// teardown unwinds whatever is loaded, in reverse load order. Safe to
// call in any state, any number of times.
func (c *Core) teardown() {
	if c.state == stateGameLoaded {
		C.bridge_retro_unload_game(c.funcs.unloadGame)
		c.state = stateCoreLoaded
	}
	if c.game != nil {
		c.game.free()
		c.game = nil
	}
	if c.state == stateCoreLoaded {
		C.bridge_retro_deinit(c.funcs.deinit)
		c.state = stateUnloaded
	}
	if c.lib != nil {
		closeLib(c.lib)
		c.lib = nil
	}
	c.funcs = coreFuncs{}
	c.sysInfo = SystemInfo{}
	c.avInfo = AVInfo{}
	c.video.reset()
	c.audio.reset()
	c.input.reset()

	if c.cSystemDir != nil {
		C.free(unsafe.Pointer(c.cSystemDir))
		c.cSystemDir = nil
	}
	if c.cSaveDir != nil {
		C.free(unsafe.Pointer(c.cSaveDir))
		c.cSaveDir = nil
	}

	unbindActive(c)
}

// newGameDescriptor builds the per-load content view and its C copies.
// The C buffer outlives the load call because cores that take the
// in-memory path are allowed to keep referencing it while the game
// stays loaded.
func newGameDescriptor(path string, content romloader.Content) *gameDescriptor {
	base := filepath.Base(path)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))

	g := &gameDescriptor{
		path: path,
		dir:  filepath.Dir(path),
		name: strings.TrimSuffix(base, filepath.Ext(base)),
		ext:  ext,
		size: len(content.Data),
	}
	g.cPath = C.CString(path)
	if len(content.Data) > 0 {
		g.cData = C.CBytes(content.Data)
	}
	return g
}

func (g *gameDescriptor) free() {
	if g.cPath != nil {
		C.free(unsafe.Pointer(g.cPath))
		g.cPath = nil
	}
	if g.cData != nil {
		C.free(g.cData)
		g.cData = nil
	}
}
