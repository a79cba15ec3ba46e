// Package textfile decides whether a file should be treated as textual
// content. Recognition is two-tier: a cheap extension/name allow-list first,
// then a content sniff over the leading bytes for anything unrecognized.
package textfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen bounds how much of a file the content sniff inspects.
const sniffLen = 8192

// printableThreshold is the fraction of sampled bytes that must be printable
// for the sniff to classify a file as text.
const printableThreshold = 0.95

var textExtensions = map[string]bool{
	"txt": true, "md": true, "rst": true, "adoc": true,
	"go": true, "rs": true, "py": true, "rb": true, "php": true,
	"js": true, "ts": true, "jsx": true, "tsx": true, "mjs": true,
	"c": true, "cpp": true, "cc": true, "cxx": true, "h": true, "hpp": true, "hxx": true,
	"java": true, "kt": true, "kts": true, "scala": true, "swift": true, "dart": true,
	"cs": true, "fs": true, "fsi": true, "fsx": true,
	"hs": true, "elm": true, "clj": true, "cljs": true, "ex": true, "exs": true,
	"erl": true, "hrl": true, "ml": true, "mli": true, "lua": true, "jl": true, "r": true,
	"lisp": true, "scm": true, "rkt": true, "el": true, "vim": true,
	"html": true, "htm": true, "css": true, "scss": true, "sass": true, "less": true,
	"json": true, "jsonc": true, "yaml": true, "yml": true, "toml": true, "xml": true,
	"csv": true, "tsv": true, "sql": true, "graphql": true, "proto": true,
	"sh": true, "bash": true, "zsh": true, "fish": true, "ps1": true, "bat": true, "cmd": true,
	"dockerfile": true, "makefile": true, "cmake": true,
	"conf": true, "config": true, "ini": true, "properties": true, "env": true,
	"gitignore": true, "gitattributes": true, "dockerignore": true, "editorconfig": true,
	"mod": true, "sum": true, "lock": true, "tf": true, "tfvars": true,
	"tex": true, "bib": true, "asm": true, "s": true,
}

var textFilenames = map[string]bool{
	"readme": true, "license": true, "licence": true, "changelog": true,
	"authors": true, "contributors": true, "copying": true, "notice": true,
	"makefile": true, "dockerfile": true, "vagrantfile": true, "justfile": true,
	"gemfile": true, "rakefile": true, "procfile": true, "brewfile": true,
	"cmakelists": true, "configure": true, "install": true, "manifest": true,
	"news": true, "todo": true, "version": true, "codeowners": true,
}

// magicNumbers are leading byte signatures of well-known binary formats. A
// sample starting with any of these is never text, whatever its byte ratio.
var magicNumbers = [][]byte{
	{0x7f, 'E', 'L', 'F'},       // ELF
	{'M', 'Z'},                  // PE/DOS
	{0xfe, 0xed, 0xfa, 0xce},    // Mach-O 32-bit
	{0xfe, 0xed, 0xfa, 0xcf},    // Mach-O 64-bit
	{0xcf, 0xfa, 0xed, 0xfe},    // Mach-O 64-bit little-endian
	{0xca, 0xfe, 0xba, 0xbe},    // Mach-O fat / Java class
	{0x89, 'P', 'N', 'G'},       // PNG
	{0xff, 0xd8, 0xff},          // JPEG
	{'G', 'I', 'F', '8'},        // GIF
	{'B', 'M'},                  // BMP
	{'%', 'P', 'D', 'F'},        // PDF
	{'P', 'K', 0x03, 0x04},      // ZIP (and jar, docx, …)
	{'P', 'K', 0x05, 0x06},      // empty ZIP
	{0x1f, 0x8b},                // gzip
	{'B', 'Z', 'h'},             // bzip2
	{0xfd, '7', 'z', 'X', 'Z'},  // xz
	{'7', 'z', 0xbc, 0xaf},      // 7z
	{'R', 'a', 'r', '!'},        // RAR
	{'S', 'Q', 'L', 'i', 't'},   // SQLite
	{'O', 'g', 'g', 'S'},        // Ogg
	{'f', 'L', 'a', 'C'},        // FLAC
	{'I', 'D', '3'},             // MP3 with ID3 tag
	{0x00, 0x61, 0x73, 0x6d},    // WebAssembly
	{0x49, 0x49, 0x2a, 0x00},    // TIFF little-endian
	{0x4d, 0x4d, 0x00, 0x2a},    // TIFF big-endian
}

// IsText reports whether the file at path should be treated as textual.
// I/O failures classify as non-text; they are never surfaced.
func IsText(path string) bool {
	if recognizedName(path) {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	return SniffText(buf[:n])
}

// recognizedName classifies by extension, falling back to well-known
// extensionless filenames.
func recognizedName(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if ext := strings.TrimPrefix(filepath.Ext(base), "."); ext != "" {
		return textExtensions[ext]
	}
	return textFilenames[strings.TrimPrefix(base, ".")]
}

// SniffText classifies a leading-bytes sample. An empty sample is not text;
// a known binary signature or any NUL byte forces a non-text verdict; other
// samples are text iff at least 95% of the bytes are printable ASCII,
// tab/CR/LF, or part of a complete valid UTF-8 sequence.
func SniffText(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	for _, magic := range magicNumbers {
		if bytes.HasPrefix(sample, magic) {
			return false
		}
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}

	printable := 0
	for i := 0; i < len(sample); {
		b := sample[i]
		if b < utf8.RuneSelf {
			if b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7f) {
				printable++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid or truncated sequence; count the byte as opaque.
			i++
			continue
		}
		printable += size
		i += size
	}
	return float64(printable) >= printableThreshold*float64(len(sample))
}
