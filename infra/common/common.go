package common

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// skipDirs never affect the API image.
var skipDirs = map[string]bool{
	".git":      true,
	"_examples": true,
	"infra":     true,
}

// GenerateHash folds the md5 of every regular file under root into one
// digest, used as the image tag so unchanged sources skip a rebuild.
func GenerateHash(root string) (string, error) {
	var hash string

	err := filepath.Walk(root,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != root && skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode()&os.ModeSymlink == os.ModeSymlink {
				return nil
			}

			fh, err := fileHash(path)
			if err != nil {
				return err
			}
			hash = appendHash(hash, fh)
			return nil
		})

	return hash, err
}

func fileHash(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func appendHash(hash1, hash2 string) string {
	h := md5.New()
	io.WriteString(h, hash1+hash2)
	return fmt.Sprintf("%x", h.Sum(nil))
}
