package filemgr

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	userPicDir     = "./static/userpic"
	providerPicDir = "./static/providerpic"
	thumbWidth     = 300
)

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func saveImage(file multipart.File, dir string) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	if err := ensureDir(filepath.Join(dir, "thumb")); err != nil {
		return "", err
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, "thumb", name)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	return name, nil
}

// SaveUserImage stores a client profile picture plus a 300px thumbnail and
// returns the stored filename.
func SaveUserImage(file multipart.File) (string, error) {
	return saveImage(file, userPicDir)
}

// SaveProviderImage stores a provider profile picture plus thumbnail.
func SaveProviderImage(file multipart.File) (string, error) {
	return saveImage(file, providerPicDir)
}
