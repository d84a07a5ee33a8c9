package main

import (
	"debug/elf"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf"
)

// loadBTF opens path as an ELF object and decodes its .BTF and (if
// present) .BTF.ext sections. ELF parsing lives entirely in this file:
// the core packages never see a file path or a section name, only
// bytes, a byte order, and a pointer width (spec.md §1/§6).
func loadBTF(path string) (*btf.BTF, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	btfData, err := sectionBytes(f, ".BTF")
	if err != nil {
		return nil, err
	}

	extData, err := sectionBytes(f, ".BTF.ext")
	if err != nil && !errors.Is(err, errSectionMissing) {
		return nil, err
	}

	order, err := byteOrder(f)
	if err != nil {
		return nil, err
	}

	return btf.Load(btfData, extData, order, pointerSize(f))
}

var errSectionMissing = errors.New("ELF section not found")

func sectionBytes(f *elf.File, name string) ([]byte, error) {
	sec := f.Section(name)
	if sec == nil {
		return nil, errors.Wrapf(errSectionMissing, "%s", name)
	}
	data, err := sec.Data()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func byteOrder(f *elf.File) (binary.ByteOrder, error) {
	switch f.Data {
	case elf.ELFDATA2LSB:
		return binary.LittleEndian, nil
	case elf.ELFDATA2MSB:
		return binary.BigEndian, nil
	default:
		return nil, errors.Errorf("unrecognized ELF data encoding %v", f.Data)
	}
}

func pointerSize(f *elf.File) int {
	if f.Class == elf.ELFCLASS64 {
		return 8
	}
	return 4
}
