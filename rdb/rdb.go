// Package rdb reads RDB files, the MessagePack-based game databases
// shipped with RetroArch. A database maps ROM checksums to No-Intro
// metadata, which lets a frontend identify whatever content a core
// was handed.
package rdb

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"strings"
)

// Entry is one game record from a database.
type Entry struct {
	Name         string // full No-Intro name, e.g. "Sonic the Hedgehog (USA, Europe)"
	Description  string
	Genre        string
	Developer    string
	Publisher    string
	Franchise    string
	ESRBRating   string
	ROMName      string
	Serial       string
	ReleaseMonth uint
	ReleaseYear  uint
	Size         uint64
	CRC32        uint32
	MD5          string // lowercase hex
}

// Database holds the parsed entries with checksum indexes.
type Database struct {
	entries []Entry
	byCRC   map[uint32]*Entry
	byMD5   map[string]*Entry
}

const headerLen = 0x10 // "RARCHDB" magic plus metadata offset

// Load reads and parses a database file.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rdb: read database: %w", err)
	}
	return Parse(data), nil
}

// Parse decodes database content. Records the decoder cannot make
// sense of are skipped rather than failing the whole file.
func Parse(data []byte) *Database {
	entries := decodeEntries(data)

	db := &Database{
		entries: entries,
		byCRC:   make(map[uint32]*Entry, len(entries)),
		byMD5:   make(map[string]*Entry, len(entries)),
	}
	for i := range db.entries {
		e := &db.entries[i]
		if e.CRC32 != 0 {
			db.byCRC[e.CRC32] = e
		}
		if e.MD5 != "" {
			db.byMD5[e.MD5] = e
		}
	}
	return db
}

// Len returns the number of entries.
func (db *Database) Len() int {
	return len(db.entries)
}

// FindByCRC32 returns the entry with the given checksum, or nil.
func (db *Database) FindByCRC32(sum uint32) *Entry {
	return db.byCRC[sum]
}

// FindByMD5 returns the entry with the given lowercase hex MD5, or nil.
func (db *Database) FindByMD5(sum string) *Entry {
	return db.byMD5[sum]
}

// Identify hashes ROM content and looks it up, trying CRC32 first and
// MD5 second. Returns nil when the content is not in the database.
func (db *Database) Identify(content []byte) *Entry {
	if e := db.byCRC[crc32.ChecksumIEEE(content)]; e != nil {
		return e
	}
	return db.byMD5[fmt.Sprintf("%x", md5.Sum(content))]
}

// DisplayName strips the parenthesized region and revision tags from
// a No-Intro name.
func DisplayName(name string) string {
	if idx := strings.Index(name, " ("); idx > 0 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}

// Region extracts the region code from a No-Intro name. Returns "us",
// "eu", "jp", or "" when no region tag is present. Multi-region names
// resolve to the first tag matched, with world releases treated as US.
func Region(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "(usa"), strings.Contains(lower, "(us)"),
		strings.Contains(lower, ", usa)"), strings.Contains(lower, "(world)"):
		return "us"
	case strings.Contains(lower, "(europe"), strings.Contains(lower, "(eu)"),
		strings.Contains(lower, ", europe)"):
		return "eu"
	case strings.Contains(lower, "(japan"), strings.Contains(lower, "(jp)"),
		strings.Contains(lower, ", japan)"):
		return "jp"
	}
	return ""
}

// MessagePack markers used by the RDB encoder. Only the subset the
// databases actually emit is handled.
const (
	mpFixMapLo = 0x80
	mpFixMapHi = 0x8f
	mpFixStrLo = 0xa0
	mpFixStrHi = 0xbf
	mpNil      = 0xc0
	mpBin8     = 0xc4
	mpBin16    = 0xc5
	mpBin32    = 0xc6
	mpUint8    = 0xcc
	mpUint16   = 0xcd
	mpUint32   = 0xce
	mpUint64   = 0xcf
	mpStr8     = 0xd9
	mpStr16    = 0xda
	mpStr32    = 0xdb
	mpMap16    = 0xde
	mpMap32    = 0xdf
)

// decoder walks the byte stream. Truncation at any point ends the walk
// without error; whatever decoded cleanly is kept.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) byte() (byte, bool) {
	if d.remaining() < 1 {
		return 0, false
	}
	b := d.data[d.pos]
	d.pos++
	return b, true
}

func (d *decoder) bytes(n int) ([]byte, bool) {
	if n < 0 || d.remaining() < n {
		return nil, false
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, true
}

// uintN reads an n-byte big-endian unsigned integer.
func (d *decoder) uintN(n int) (uint64, bool) {
	b, ok := d.bytes(n)
	if !ok {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, true
}

func decodeEntries(data []byte) []Entry {
	if len(data) <= headerLen {
		return nil
	}

	d := &decoder{data: data, pos: headerLen}
	var out []Entry
	var cur Entry

	flush := func() {
		if cur.Name != "" || cur.CRC32 != 0 {
			out = append(out, cur)
		}
		cur = Entry{}
	}

	for {
		marker, ok := d.byte()
		if !ok || marker == mpNil {
			break
		}

		switch {
		case marker >= mpFixMapLo && marker <= mpFixMapHi:
			flush()
			if !decodeRecord(d, &cur, int(marker-mpFixMapLo)) {
				flush()
				return out
			}

		case marker == mpMap16 || marker == mpMap32:
			flush()
			width := 2
			if marker == mpMap32 {
				width = 4
			}
			n, ok := d.uintN(width)
			if !ok || !decodeRecord(d, &cur, int(n)) {
				flush()
				return out
			}

		default:
			// Anything outside a record is metadata the index does
			// not need. Skip it by value type.
			if !skipValue(d, marker) {
				flush()
				return out
			}
		}
	}

	flush()
	return out
}

// decodeRecord reads n key/value pairs into the entry.
func decodeRecord(d *decoder, e *Entry, n int) bool {
	for i := 0; i < n; i++ {
		key, ok := readString(d)
		if !ok {
			return false
		}
		marker, ok := d.byte()
		if !ok {
			return false
		}
		val, ok := readValue(d, marker)
		if !ok {
			return false
		}
		setField(e, key, val)
	}
	return true
}

// value holds one decoded scalar. Strings and binary blobs land in
// raw, integers in num.
type value struct {
	raw []byte
	num uint64
}

func readValue(d *decoder, marker byte) (value, bool) {
	switch {
	case marker <= 0x7f: // positive fixint
		return value{num: uint64(marker)}, true

	case marker >= mpFixStrLo && marker <= mpFixStrHi:
		raw, ok := d.bytes(int(marker - mpFixStrLo))
		return value{raw: raw}, ok

	case marker == mpStr8 || marker == mpBin8:
		n, ok := d.uintN(1)
		if !ok {
			return value{}, false
		}
		raw, ok := d.bytes(int(n))
		return value{raw: raw}, ok

	case marker == mpStr16 || marker == mpBin16:
		n, ok := d.uintN(2)
		if !ok {
			return value{}, false
		}
		raw, ok := d.bytes(int(n))
		return value{raw: raw}, ok

	case marker == mpStr32 || marker == mpBin32:
		n, ok := d.uintN(4)
		if !ok {
			return value{}, false
		}
		raw, ok := d.bytes(int(n))
		return value{raw: raw}, ok

	case marker >= mpUint8 && marker <= mpUint64:
		n, ok := d.uintN(1 << (marker - mpUint8))
		return value{num: n}, ok
	}
	return value{}, false
}

func skipValue(d *decoder, marker byte) bool {
	_, ok := readValue(d, marker)
	return ok
}

func readString(d *decoder) (string, bool) {
	marker, ok := d.byte()
	if !ok {
		return "", false
	}
	v, ok := readValue(d, marker)
	if !ok || v.raw == nil {
		return "", false
	}
	return string(v.raw), true
}

func setField(e *Entry, key string, v value) {
	switch key {
	case "name":
		e.Name = string(v.raw)
	case "description":
		e.Description = string(v.raw)
	case "genre":
		e.Genre = string(v.raw)
	case "developer":
		e.Developer = string(v.raw)
	case "publisher":
		e.Publisher = string(v.raw)
	case "franchise":
		e.Franchise = string(v.raw)
	case "esrb_rating":
		e.ESRBRating = string(v.raw)
	case "rom_name":
		e.ROMName = string(v.raw)
	case "serial":
		e.Serial = string(v.raw)
	case "size":
		e.Size = numeric(v)
	case "releasemonth":
		e.ReleaseMonth = uint(numeric(v))
	case "releaseyear":
		e.ReleaseYear = uint(numeric(v))
	case "crc":
		e.CRC32 = uint32(numeric(v))
	case "md5":
		// stored as a raw 16-byte digest
		e.MD5 = fmt.Sprintf("%x", v.raw)
	}
}

// numeric coerces a value to an integer. Checksums and sizes appear
// both as msgpack uints and as big-endian binary blobs depending on
// the database generator.
func numeric(v value) uint64 {
	if v.raw == nil {
		return v.num
	}
	switch len(v.raw) {
	case 2:
		return uint64(binary.BigEndian.Uint16(v.raw))
	case 4:
		return uint64(binary.BigEndian.Uint32(v.raw))
	case 8:
		return binary.BigEndian.Uint64(v.raw)
	}
	var n uint64
	for _, b := range v.raw {
		n = n<<8 | uint64(b)
	}
	return n
}
