package retro

/*
#include "bridge.h"
*/
import "C"
import (
	"log"
	"strings"
	"sync"
	"unsafe"

	"github.com/ryanmagoon/gamelord/pixel"
)

// The libretro callback pointers carry no context parameter, so C-side
// callbacks can only reach Go through process-global state. Exactly one
// Core is bound at a time: LoadCore binds, Destroy unbinds. Hosting
// several cores at once requires one process per core.
var (
	activeMu sync.Mutex
	active   *Core
)

func bindActive(c *Core) {
	activeMu.Lock()
	active = c
	activeMu.Unlock()
}

// unbindActive clears the binding only if c still owns it, so a Core
// destroyed after another one took over does not break the newcomer.
func unbindActive(c *Core) {
	activeMu.Lock()
	if active == c {
		active = nil
	}
	activeMu.Unlock()
}

func currentCore() *Core {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

//export coreEnvironment
func coreEnvironment(cmd C.unsigned, data unsafe.Pointer) C.bool {
	c := currentCore()
	if c == nil {
		return false
	}

	switch cmd {
	case C.RETRO_ENVIRONMENT_SET_PIXEL_FORMAT:
		c.pixFmt = pixel.Format(*(*C.unsigned)(data))
		return true

	case C.RETRO_ENVIRONMENT_GET_SYSTEM_DIRECTORY:
		*(**C.char)(data) = c.systemDirC()
		return true

	case C.RETRO_ENVIRONMENT_GET_SAVE_DIRECTORY:
		*(**C.char)(data) = c.saveDirC()
		return true

	case C.RETRO_ENVIRONMENT_GET_LOG_INTERFACE:
		C.bridge_install_log((*C.struct_retro_log_callback)(data))
		return true

	case C.RETRO_ENVIRONMENT_GET_VARIABLE:
		// No configurable-variable subsystem: report no value.
		v := (*C.struct_retro_variable)(data)
		v.value = nil
		return false

	case C.RETRO_ENVIRONMENT_SET_VARIABLES,
		C.RETRO_ENVIRONMENT_GET_VARIABLE_UPDATE:
		return false

	case C.RETRO_ENVIRONMENT_GET_CORE_OPTIONS_VERSION:
		*(*C.unsigned)(data) = 2
		return true

	case C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS,
		C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS_INTL,
		C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS_V2,
		C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS_V2_INTL,
		C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS_DISPLAY,
		C.RETRO_ENVIRONMENT_SET_CORE_OPTIONS_UPDATE_DISPLAY_CALLBACK:
		// Accepted and discarded: no UI surfaces core options.
		return true

	case C.RETRO_ENVIRONMENT_SET_GEOMETRY:
		if data != nil {
			geom := (*C.struct_retro_game_geometry)(data)
			c.avInfo.Geometry = Geometry{
				BaseWidth:   int(geom.base_width),
				BaseHeight:  int(geom.base_height),
				MaxWidth:    int(geom.max_width),
				MaxHeight:   int(geom.max_height),
				AspectRatio: float32(geom.aspect_ratio),
			}
		}
		return true

	case C.RETRO_ENVIRONMENT_GET_INPUT_BITMASKS:
		return true

	case C.RETRO_ENVIRONMENT_GET_INPUT_MAX_USERS:
		*(*C.unsigned)(data) = MaxPorts
		return true

	case C.RETRO_ENVIRONMENT_GET_MESSAGE_INTERFACE_VERSION:
		*(*C.unsigned)(data) = 0
		return true

	case C.RETRO_ENVIRONMENT_GET_GAME_INFO_EXT:
		return false

	case C.RETRO_ENVIRONMENT_SET_INPUT_DESCRIPTORS,
		C.RETRO_ENVIRONMENT_SET_CONTROLLER_INFO,
		C.RETRO_ENVIRONMENT_SET_SUBSYSTEM_INFO,
		C.RETRO_ENVIRONMENT_SET_MEMORY_MAPS,
		C.RETRO_ENVIRONMENT_SET_SERIALIZATION_QUIRKS,
		C.RETRO_ENVIRONMENT_SET_SUPPORT_NO_GAME,
		C.RETRO_ENVIRONMENT_SET_PERFORMANCE_LEVEL,
		C.RETRO_ENVIRONMENT_SET_CONTENT_INFO_OVERRIDE:
		// Metadata the host does not act on yet.
		return true

	default:
		// Declining a single negotiation must never fail the core's
		// own initialization, so unknown commands are logged and
		// answered unsupported.
		log.Printf("retro: unhandled environment command %d", uint(cmd))
		return false
	}
}

//export coreVideoRefresh
func coreVideoRefresh(data unsafe.Pointer, width, height C.unsigned, pitch C.size_t) {
	c := currentCore()
	if c == nil {
		return
	}
	// A nil frame is the duplicate-frame signal: keep the previous
	// buffer and its ready flag untouched.
	if data == nil || width == 0 || height == 0 {
		return
	}

	src := unsafe.Slice((*byte)(data), int(pitch)*int(height))
	c.video.store(src, c.pixFmt, int(width), int(height), int(pitch))
}

//export coreAudioSample
func coreAudioSample(left, right C.int16_t) {
	c := currentCore()
	if c == nil {
		return
	}
	c.audio.push(int16(left), int16(right))
}

//export coreAudioSampleBatch
func coreAudioSampleBatch(data unsafe.Pointer, frames C.size_t) C.size_t {
	c := currentCore()
	if c == nil || data == nil || frames == 0 {
		return 0
	}
	src := unsafe.Slice((*int16)(data), int(frames)*2)
	c.audio.pushBatch(src)
	return frames
}

//export coreInputPoll
func coreInputPoll() {
	// Nothing to latch: the consumer writes the input table directly,
	// so state is always current when the core reads it.
}

//export coreInputState
func coreInputState(port, device, index, id C.unsigned) C.int16_t {
	c := currentCore()
	if c == nil {
		return 0
	}
	if device != C.RETRO_DEVICE_JOYPAD || index != 0 {
		return 0
	}
	if id == C.RETRO_DEVICE_ID_JOYPAD_MASK {
		return C.int16_t(c.input.mask(int(port)))
	}
	return C.int16_t(c.input.read(int(port), int(id)))
}

//export coreLog
func coreLog(level C.int, msg *C.char) {
	text := strings.TrimRight(C.GoString(msg), "\n")
	switch level {
	case C.RETRO_LOG_DEBUG:
		log.Printf("[core DEBUG] %s", text)
	case C.RETRO_LOG_INFO:
		log.Printf("[core INFO] %s", text)
	case C.RETRO_LOG_WARN:
		log.Printf("[core WARN] %s", text)
	case C.RETRO_LOG_ERROR:
		log.Printf("[core ERROR] %s", text)
	default:
		log.Printf("[core] %s", text)
	}
}
