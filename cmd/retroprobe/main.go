// Command retroprobe loads a libretro core, runs a ROM headlessly for a
// number of frames, and reports what the core produced. Useful for
// smoke-testing a core build without a frontend.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/ryanmagoon/gamelord/rdb"
	"github.com/ryanmagoon/gamelord/retro"
	"github.com/ryanmagoon/gamelord/romloader"
)

func main() {
	corePath := flag.String("core", "", "path to the libretro core .so")
	romPath := flag.String("rom", "", "path to the ROM (archives are extracted)")
	frames := flag.Int("frames", 60, "number of frames to run")
	frameOut := flag.String("frame-out", "", "write the last video frame as PNG")
	systemDir := flag.String("system-dir", ".", "directory the core reads BIOS/system files from")
	saveDir := flag.String("save-dir", ".", "directory the core writes saves to")
	checkState := flag.Bool("state", false, "exercise a savestate round trip")
	dbPath := flag.String("db", "", "RetroArch .rdb database for ROM identification")
	flag.Parse()

	if *corePath == "" {
		log.Fatal("retroprobe: -core is required")
	}

	if err := run(*corePath, *romPath, *frames, *frameOut, *systemDir, *saveDir, *dbPath, *checkState); err != nil {
		log.Fatalf("retroprobe: %v", err)
	}
}

func run(corePath, romPath string, frames int, frameOut, systemDir, saveDir, dbPath string, checkState bool) error {
	core := retro.New()
	defer core.Destroy()

	core.SetSystemDirectory(systemDir)
	core.SetSaveDirectory(saveDir)

	if err := core.LoadCore(corePath); err != nil {
		return err
	}

	info, _ := core.SystemInfo()
	fmt.Printf("core:        %s %s\n", info.LibraryName, info.LibraryVersion)
	fmt.Printf("extensions:  %s\n", info.ValidExtensions)
	fmt.Printf("api version: %d\n", core.APIVersion())

	if romPath == "" {
		return nil
	}

	if err := core.LoadGame(romPath); err != nil {
		return err
	}

	av, _ := core.AVInfo()
	fmt.Printf("geometry:    %dx%d (max %dx%d)\n",
		av.Geometry.BaseWidth, av.Geometry.BaseHeight,
		av.Geometry.MaxWidth, av.Geometry.MaxHeight)
	fmt.Printf("timing:      %.2f fps, %.0f Hz audio\n", av.Timing.FPS, av.Timing.SampleRate)
	fmt.Printf("region:      %s\n", regionName(core.Region()))

	if dbPath != "" {
		if err := identify(dbPath, romPath, info); err != nil {
			return err
		}
	}

	var (
		last     retro.VideoFrame
		haveLast bool
		samples  int
	)
	for i := 0; i < frames; i++ {
		core.Run()
		if frame, ok := core.VideoFrame(); ok {
			last = frame
			haveLast = true
		}
		samples += len(core.AudioSamples())
	}

	fmt.Printf("ran %d frames, drained %d audio samples\n", frames, samples)
	if haveLast {
		fmt.Printf("last frame:  %dx%d\n", last.Width, last.Height)
	} else {
		fmt.Println("last frame:  none produced")
	}

	if frameOut != "" && haveLast {
		if err := writePNG(frameOut, last); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", frameOut)
	}

	if checkState {
		if err := stateRoundTrip(core, frames); err != nil {
			return err
		}
	}

	return nil
}

// identify hashes the content the core was handed and looks it up in
// a RetroArch database.
func identify(dbPath, romPath string, info retro.SystemInfo) error {
	db, err := rdb.Load(dbPath)
	if err != nil {
		return err
	}

	content, err := romloader.Read(romPath, extensionList(info.ValidExtensions), info.BlockExtract)
	if err != nil {
		return err
	}

	entry := db.Identify(content.Data)
	if entry == nil {
		fmt.Printf("database:    no match for %s (%d entries scanned)\n", content.Name, db.Len())
		return nil
	}
	fmt.Printf("database:    %s", rdb.DisplayName(entry.Name))
	if region := rdb.Region(entry.Name); region != "" {
		fmt.Printf(" [%s]", region)
	}
	fmt.Println()
	if entry.Developer != "" || entry.ReleaseYear != 0 {
		fmt.Printf("             %s, %d\n", entry.Developer, entry.ReleaseYear)
	}
	return nil
}

// extensionList converts the pipe-separated form cores report into
// dotted lowercase extensions.
func extensionList(valid string) []string {
	if valid == "" {
		return nil
	}
	parts := strings.Split(valid, "|")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		exts = append(exts, "."+strings.ToLower(p))
	}
	return exts
}

// stateRoundTrip saves, runs a few more frames, then restores and
// checks the save still applies cleanly.
func stateRoundTrip(core *retro.Core, frames int) error {
	size := core.SerializeSize()
	if size == 0 {
		fmt.Println("savestate:   not supported by this core")
		return nil
	}

	state, err := core.SerializeState()
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		core.Run()
		core.VideoFrame()
		core.AudioSamples()
	}
	if err := core.UnserializeState(state); err != nil {
		return err
	}
	fmt.Printf("savestate:   ok (%d bytes)\n", len(state))
	return nil
}

func writePNG(path string, frame retro.VideoFrame) error {
	img := &image.RGBA{
		Pix:    frame.Data,
		Stride: frame.Width * 4,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func regionName(region int) string {
	switch region {
	case retro.RegionNTSC:
		return "NTSC"
	case retro.RegionPAL:
		return "PAL"
	}
	return fmt.Sprintf("unknown (%d)", region)
}
