package retro

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// coreFuncs is the resolved entry-point table of a loaded core. The
// fields present here are mandatory; anything a core may legitimately
// omit lives in optionalFuncs so call sites can ask for the capability
// instead of null-checking raw pointers.
type coreFuncs struct {
	setEnvironment      unsafe.Pointer
	setVideoRefresh     unsafe.Pointer
	setAudioSample      unsafe.Pointer
	setAudioSampleBatch unsafe.Pointer
	setInputPoll        unsafe.Pointer
	setInputState       unsafe.Pointer
	init                unsafe.Pointer
	deinit              unsafe.Pointer
	getSystemInfo       unsafe.Pointer
	getSystemAVInfo     unsafe.Pointer
	run                 unsafe.Pointer
	loadGame            unsafe.Pointer
	unloadGame          unsafe.Pointer

	opt optionalFuncs
}

// optionalFuncs holds entry points a core may omit. Nil means the core
// does not implement the symbol.
type optionalFuncs struct {
	apiVersion              unsafe.Pointer
	setControllerPortDevice unsafe.Pointer
	reset                   unsafe.Pointer
	serializeSize           unsafe.Pointer
	serialize               unsafe.Pointer
	unserialize             unsafe.Pointer
	getRegion               unsafe.Pointer
	getMemoryData           unsafe.Pointer
	getMemorySize           unsafe.Pointer
}

// canSerialize reports whether the core exposes the full save-state
// triplet. Partial support is treated as no support.
func (o *optionalFuncs) canSerialize() bool {
	return o.serializeSize != nil && o.serialize != nil && o.unserialize != nil
}

func (o *optionalFuncs) canMapMemory() bool {
	return o.getMemoryData != nil && o.getMemorySize != nil
}

// openLib opens a shared object with dlopen. The returned handle must
// be released with closeLib.
func openLib(path string) (unsafe.Pointer, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	h := C.dlopen(cPath, C.RTLD_NOW|C.RTLD_LOCAL)
	if h == nil {
		return nil, &LibraryOpenError{Path: path, Detail: dlError()}
	}
	return h, nil
}

func closeLib(h unsafe.Pointer) {
	if h != nil {
		C.dlclose(h)
	}
}

func loadSymbol(h unsafe.Pointer, name string) unsafe.Pointer {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return C.dlsym(h, cName)
}

func dlError() string {
	if err := C.dlerror(); err != nil {
		return C.GoString(err)
	}
	return "unknown error"
}

// resolveFuncs resolves the full entry-point table from an open
// library. A missing required symbol fails the whole resolution; the
// caller is expected to close the library, no partially filled table
// escapes.
func resolveFuncs(h unsafe.Pointer) (coreFuncs, error) {
	var f coreFuncs

	required := []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"retro_set_environment", &f.setEnvironment},
		{"retro_set_video_refresh", &f.setVideoRefresh},
		{"retro_set_audio_sample", &f.setAudioSample},
		{"retro_set_audio_sample_batch", &f.setAudioSampleBatch},
		{"retro_set_input_poll", &f.setInputPoll},
		{"retro_set_input_state", &f.setInputState},
		{"retro_init", &f.init},
		{"retro_deinit", &f.deinit},
		{"retro_get_system_info", &f.getSystemInfo},
		{"retro_get_system_av_info", &f.getSystemAVInfo},
		{"retro_run", &f.run},
		{"retro_load_game", &f.loadGame},
		{"retro_unload_game", &f.unloadGame},
	}
	for _, s := range required {
		p := loadSymbol(h, s.name)
		if p == nil {
			return coreFuncs{}, &SymbolResolutionError{Symbol: s.name}
		}
		*s.dst = p
	}

	optional := []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"retro_api_version", &f.opt.apiVersion},
		{"retro_set_controller_port_device", &f.opt.setControllerPortDevice},
		{"retro_reset", &f.opt.reset},
		{"retro_serialize_size", &f.opt.serializeSize},
		{"retro_serialize", &f.opt.serialize},
		{"retro_unserialize", &f.opt.unserialize},
		{"retro_get_region", &f.opt.getRegion},
		{"retro_get_memory_data", &f.opt.getMemoryData},
		{"retro_get_memory_size", &f.opt.getMemorySize},
	}
	for _, s := range optional {
		*s.dst = loadSymbol(h, s.name)
	}

	return f, nil
}
