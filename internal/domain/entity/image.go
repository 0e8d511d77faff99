package entity

import (
	"encoding/base64"
	"sync"
)

// ImageEncoding формат данных снимка
type ImageEncoding string

const (
	EncodingJPEG ImageEncoding = "jpeg"
	EncodingPNG  ImageEncoding = "png"
)

// MIMEType возвращает MIME-тип для запроса к сервису распознавания
func (e ImageEncoding) MIMEType() string {
	switch e {
	case EncodingPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// CameraPermission состояние разрешения на камеру
type CameraPermission string

const (
	PermissionUndetermined CameraPermission = "undetermined"
	PermissionGranted      CameraPermission = "granted"
	PermissionDenied       CameraPermission = "denied"
)

// CapturedImage снимок листа, полученный одним нажатием затвора.
// Handle указывает на временную копию для локального просмотра.
// Владелец обязан вызвать Release при повторе или уходе с экрана.
type CapturedImage struct {
	Data     []byte
	Encoding ImageEncoding
	Handle   string

	mu       sync.Mutex
	release  func() error
	released bool
}

// NewCapturedImage создаёт снимок; release освобождает временный буфер (может быть nil).
func NewCapturedImage(data []byte, encoding ImageEncoding, handle string, release func() error) *CapturedImage {
	return &CapturedImage{
		Data:     data,
		Encoding: encoding,
		Handle:   handle,
		release:  release,
	}
}

// Base64 кодирует данные снимка для inline-передачи.
// ok == false, если снимок уже освобождён.
func (img *CapturedImage) Base64() (encoded string, ok bool) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.released {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(img.Data), true
}

// Release освобождает буфер снимка. Повторный вызов ничего не делает.
func (img *CapturedImage) Release() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.released {
		return nil
	}
	img.released = true
	img.Data = nil

	if img.release != nil {
		return img.release()
	}
	return nil
}

// Released сообщает, был ли снимок уже освобождён
func (img *CapturedImage) Released() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.released
}
