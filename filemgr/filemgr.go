package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// webp has no decoder in image's standard registrations.
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// Upper bound on decoded image dimensions, to keep thumbnailing from
// chewing through memory on absurd uploads.
const (
	maxImageWidth  = 8192
	maxImageHeight = 8192
)

// SaveFile saves a file to disk with extension/MIME validation and optional renaming.
func SaveFile(reader io.Reader, header *multipart.FileHeader, destDir string, maxSize int64, customNameFn func(original string) string) (string, error) {
	if maxSize > 0 && header.Size > maxSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	picType := detectPicType(destDir)
	if picType == "" {
		return "", fmt.Errorf("unknown picture type for folder: %s", destDir)
	}

	if !isExtensionAllowed(ext, picType) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidExtension, ext, picType)
	}

	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	mimeType := http.DetectContentType(buf[:n])

	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	if !isMIMEAllowed(mimeType, picType) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, picType)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := ""
	if customNameFn != nil {
		filename = strings.TrimSpace(customNameFn(header.Filename))
	}
	if filename == "" {
		filename = uuid.New().String() + ext
	} else {
		filename = ensureSafeFilename(filename, ext)
	}

	fullPath := filepath.Join(destDir, filename)
	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := out.Write(buf[:n]); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	// Read one byte past the limit so an undersized Size header cannot
	// smuggle in a truncated oversized body.
	body := io.Reader(reader)
	if maxSize > 0 {
		body = io.LimitReader(reader, maxSize-int64(n)+1)
	}
	written, err := io.Copy(out, body)
	if err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	if maxSize > 0 && written+int64(n) > maxSize {
		os.Remove(fullPath)
		return "", ErrFileTooLarge
	}

	return filename, nil
}

// SaveFileForEntity writes an uploaded file under the entity's folder.
// Images get their EXIF data stripped and a thumbnail generated.
func SaveFileForEntity(file multipart.File, header *multipart.FileHeader, entity EntityType, picType PictureType) (string, error) {
	defer file.Close()
	dest := ResolvePath(entity, picType)

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if isImageType(picType) {
		img, _, err := image.Decode(bytes.NewReader(buf))
		if err == nil {
			if err := ValidateImageDimensions(img, maxImageWidth, maxImageHeight); err != nil {
				return "", err
			}
			if strip, err := stripEXIF(img); err == nil {
				buf = strip.Bytes()
			}

			fileName, err := SaveFile(bytes.NewReader(buf), header, dest, 10<<20, nil)
			if err != nil {
				return "", err
			}

			if err := generateThumbnail(img, entity, fileName); err != nil {
				log.Printf("filemgr: thumbnail for %s: %v", fileName, err)
			}
			return fileName, nil
		}
		// fallback to normal save if decode fails
	}

	return SaveFile(bytes.NewReader(buf), header, dest, 10<<20, nil)
}

func generateThumbnail(img image.Image, entity EntityType, baseFilename string) error {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // maintain aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	path := filepath.Join(ResolvePath(entity, PicThumb), name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// SaveFormFile saves the first file under formKey, if any.
func SaveFormFile(form *multipart.Form, formKey string, entity EntityType, picType PictureType, required bool) (string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return "", fmt.Errorf("missing required file: %s", formKey)
		}
		return "", nil
	}
	file, err := files[0].Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", formKey, err)
	}
	return SaveFileForEntity(file, files[0], entity, picType)
}

// SaveFormFiles saves every file under formKey. Individual save failures are
// logged and skipped so one bad attachment does not sink the whole upload;
// the caller gets whatever was stored successfully.
func SaveFormFiles(form *multipart.Form, formKey string, entity EntityType, picType PictureType, required bool) ([]string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return nil, fmt.Errorf("missing required files: %s", formKey)
		}
		return nil, nil
	}

	var saved []string
	for _, hdr := range files {
		file, err := hdr.Open()
		if err != nil {
			log.Printf("filemgr: open %s: %v", hdr.Filename, err)
			continue
		}
		name, err := SaveFileForEntity(file, hdr, entity, picType)
		if err != nil {
			log.Printf("filemgr: save %s: %v", hdr.Filename, err)
			continue
		}
		saved = append(saved, name)
	}
	return saved, nil
}
