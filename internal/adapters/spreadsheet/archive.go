package spreadsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Expand turns one upload into the files to parse. Zip archives yield one
// File per member, named by its path inside the archive; nested archives are
// returned as members, not recursed into. Any other upload is returned as is.
//
// A member that cannot be read comes back with Err set and no Data; its
// siblings are still returned. Only an unreadable central directory or too
// many members fail the whole archive.
func (r *Reader) Expand(ctx context.Context, data []byte, filename string) ([]File, error) {
	if DetectFormat(filename) != FormatZip {
		return []File{{Name: filename, Data: data}}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, filename, err)
	}

	var files []File
	for _, member := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if skipMember(member) {
			continue
		}
		if len(files) == r.maxArchiveEntries {
			return nil, fmt.Errorf("%w: %s holds more than %d files", ErrArchiveTooLarge, filename, r.maxArchiveEntries)
		}
		b, err := r.readMember(member)
		if err != nil {
			files = append(files, File{Name: member.Name, Err: err})
			continue
		}
		files = append(files, File{Name: member.Name, Data: b})
	}
	return files, nil
}

func (r *Reader) readMember(member *zip.File) ([]byte, error) {
	if member.UncompressedSize64 > uint64(r.maxMemberBytes) {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrArchiveTooLarge, member.Name, r.maxMemberBytes)
	}
	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, member.Name, err)
	}
	defer func() { _ = rc.Close() }()

	// The header size is attacker controlled; enforce the bound while reading.
	b, err := io.ReadAll(io.LimitReader(rc, r.maxMemberBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, member.Name, err)
	}
	if int64(len(b)) > r.maxMemberBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrArchiveTooLarge, member.Name, r.maxMemberBytes)
	}
	return b, nil
}

// skipMember filters directories, macOS resource forks, hidden files and
// Office lock files.
func skipMember(f *zip.File) bool {
	if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
		return true
	}
	if strings.HasPrefix(f.Name, "__MACOSX/") {
		return true
	}
	base := path.Base(f.Name)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
