package scoreloader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

const containerPath = "META-INF/container.xml"

type mxlContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

func loadMXL(filePath string) (*Score, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, formatError(filePath, err)
	}
	defer archive.Close()

	entry, err := findRootfile(&archive.Reader)
	if err != nil {
		return nil, formatError(filePath, err)
	}

	r, err := entry.Open()
	if err != nil {
		return nil, formatError(filePath, err)
	}
	defer r.Close()

	score, err := decodeMusicXML(r)
	if err != nil {
		return nil, formatError(filePath, fmt.Errorf("%s: %w", entry.Name, err))
	}
	return score, nil
}

// findRootfile picks the score named by the container manifest, falling back
// to the first MusicXML entry outside META-INF.
func findRootfile(archive *zip.Reader) (*zip.File, error) {
	var files = map[string]*zip.File{}
	for _, f := range archive.File {
		files[f.Name] = f
	}

	if container, ok := files[containerPath]; ok {
		r, err := container.Open()
		if err != nil {
			return nil, err
		}
		var c mxlContainer
		err = xml.NewDecoder(r).Decode(&c)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", containerPath, err)
		}
		for _, rf := range c.Rootfiles {
			if f, ok := files[rf.FullPath]; ok {
				return f, nil
			}
		}
	}

	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xml", ".musicxml":
			return f, nil
		}
	}

	return nil, fmt.Errorf("no MusicXML score in archive")
}
