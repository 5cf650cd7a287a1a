package rdb

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"hash/crc32"
	"testing"
)

// buildDB hand-encodes a database: 16 header bytes, then fixmap
// records with fixstr keys, terminated by a nil marker.
type dbBuilder struct {
	buf bytes.Buffer
}

func newDBBuilder() *dbBuilder {
	b := &dbBuilder{}
	b.buf.Write(make([]byte, headerLen))
	return b
}

func (b *dbBuilder) record(pairs ...func(*dbBuilder)) {
	b.buf.WriteByte(mpFixMapLo + byte(len(pairs)))
	for _, p := range pairs {
		p(b)
	}
}

func (b *dbBuilder) str(key, val string) func(*dbBuilder) {
	return func(b *dbBuilder) {
		b.fixstr(key)
		b.fixstr(val)
	}
}

func (b *dbBuilder) bin(key string, val []byte) func(*dbBuilder) {
	return func(b *dbBuilder) {
		b.fixstr(key)
		b.buf.WriteByte(mpBin8)
		b.buf.WriteByte(byte(len(val)))
		b.buf.Write(val)
	}
}

func (b *dbBuilder) u32(key string, val uint32) func(*dbBuilder) {
	return func(b *dbBuilder) {
		b.fixstr(key)
		b.buf.WriteByte(mpUint32)
		var raw [4]byte
		binary.BigEndian.PutUint32(raw[:], val)
		b.buf.Write(raw[:])
	}
}

func (b *dbBuilder) fixstr(s string) {
	b.buf.WriteByte(mpFixStrLo + byte(len(s)))
	b.buf.WriteString(s)
}

func (b *dbBuilder) bytes() []byte {
	b.buf.WriteByte(mpNil)
	return b.buf.Bytes()
}

func TestParse(t *testing.T) {
	rom := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	sum := crc32.ChecksumIEEE(rom)
	digest := md5.Sum(rom)

	var crcRaw [4]byte
	binary.BigEndian.PutUint32(crcRaw[:], sum)

	b := newDBBuilder()
	b.record(
		b.str("name", "Sonic the Hedgehog (USA, Europe)"),
		b.str("developer", "Sega"),
		b.str("rom_name", "sonic.sms"),
		b.bin("crc", crcRaw[:]),
		b.bin("md5", digest[:]),
	)
	b.record(
		b.str("name", "Alex Kidd in Miracle World (Europe)"),
		b.u32("crc", 0xAABBCCDD),
	)

	db := Parse(b.bytes())

	if db.Len() != 2 {
		t.Fatalf("Len = %d, want 2", db.Len())
	}

	e := db.FindByCRC32(sum)
	if e == nil {
		t.Fatal("FindByCRC32 returned nil for known checksum")
	}
	if e.Name != "Sonic the Hedgehog (USA, Europe)" {
		t.Errorf("name = %q", e.Name)
	}
	if e.Developer != "Sega" {
		t.Errorf("developer = %q", e.Developer)
	}
	if e.ROMName != "sonic.sms" {
		t.Errorf("rom_name = %q", e.ROMName)
	}

	if e := db.FindByCRC32(0xAABBCCDD); e == nil || e.Name != "Alex Kidd in Miracle World (Europe)" {
		t.Errorf("uint-encoded checksum lookup failed: %+v", e)
	}
	if db.FindByCRC32(0x01020304) != nil {
		t.Error("unknown checksum should return nil")
	}
}

func TestIdentify(t *testing.T) {
	rom := []byte("ROM CONTENT")
	digest := md5.Sum(rom)

	var crcRaw [4]byte
	binary.BigEndian.PutUint32(crcRaw[:], crc32.ChecksumIEEE(rom))

	b := newDBBuilder()
	b.record(
		b.str("name", "Wonder Boy (World)"),
		b.bin("crc", crcRaw[:]),
		b.bin("md5", digest[:]),
	)
	db := Parse(b.bytes())

	if e := db.Identify(rom); e == nil || e.Name != "Wonder Boy (World)" {
		t.Errorf("Identify = %+v, want Wonder Boy entry", e)
	}
	if e := db.Identify([]byte("something else")); e != nil {
		t.Errorf("Identify of unknown content = %+v, want nil", e)
	}
}

func TestIdentifyFallsBackToMD5(t *testing.T) {
	rom := []byte("MD5 ONLY")
	digest := md5.Sum(rom)

	b := newDBBuilder()
	b.record(
		b.str("name", "Phantasy Star (Japan)"),
		b.bin("md5", digest[:]),
	)
	db := Parse(b.bytes())

	if e := db.Identify(rom); e == nil || e.Name != "Phantasy Star (Japan)" {
		t.Errorf("Identify = %+v, want MD5 match", e)
	}
}

func TestParseTruncated(t *testing.T) {
	if db := Parse(nil); db.Len() != 0 {
		t.Errorf("Len = %d for empty data", db.Len())
	}
	if db := Parse(make([]byte, headerLen)); db.Len() != 0 {
		t.Errorf("Len = %d for header-only data", db.Len())
	}

	// Record cut off mid-value keeps the fields decoded before the cut.
	b := newDBBuilder()
	b.record(b.str("name", "Zillion (Japan)"), b.u32("crc", 0x11223344))
	data := b.bytes()
	data = data[:len(data)-3] // drop part of the crc and the nil

	db := Parse(data)
	if db.Len() != 1 {
		t.Fatalf("Len = %d, want 1 for record cut mid-value", db.Len())
	}
	e := db.FindByCRC32(0x11223344)
	if e != nil {
		t.Error("partial checksum should not be indexed")
	}
}

func TestParseSkipsUnknownKeys(t *testing.T) {
	b := newDBBuilder()
	b.record(
		b.str("name", "Black Belt (World)"),
		b.str("obscure_field", "ignored"),
		b.u32("crc", 0x01020304),
	)
	db := Parse(b.bytes())

	e := db.FindByCRC32(0x01020304)
	if e == nil || e.Name != "Black Belt (World)" {
		t.Fatalf("entry with unknown key not parsed: %+v", e)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sonic the Hedgehog (USA)", "Sonic the Hedgehog"},
		{"Zillion (Japan) (Rev 2)", "Zillion"},
		{"Wonder Boy", "Wonder Boy"},
		{"(USA)", "(USA)"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := DisplayName(tc.in); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sonic (USA)", "us"},
		{"Sonic (USA, Europe)", "us"},
		{"Game (World)", "us"},
		{"Alex Kidd (Europe)", "eu"},
		{"Alex Kidd (Japan, Europe)", "eu"},
		{"Phantasy Star (Japan)", "jp"},
		{"Phantasy Star (JP)", "jp"},
		{"Game (usa)", "us"},
		{"Wonder Boy", ""},
		{"Game (Brazil)", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Region(tc.in); got != tc.want {
			t.Errorf("Region(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
