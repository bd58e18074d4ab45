package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/skillmerge/internal/adapters/spreadsheet"
	service "github.com/okian/skillmerge/internal/app"
)

// CollectUploads reads the named files and the spreadsheets and archives
// directly inside the named directories. Files named explicitly are read
// whatever their extension so the service can report them; directory
// entries are filtered by extension and read in name order.
func CollectUploads(paths []string) ([]service.Upload, error) {
	var uploads []service.Upload
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			u, err := readUpload(p)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() && spreadsheet.DetectFormat(e.Name()) != spreadsheet.FormatUnknown {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			u, err := readUpload(filepath.Join(p, name))
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
		}
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: pass spreadsheets, archives or directories holding them", ErrNoInputs)
	}
	return uploads, nil
}

func readUpload(path string) (service.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Filename: filepath.Base(path), Data: data}, nil
}
