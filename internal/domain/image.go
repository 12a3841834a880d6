package domain

// Image описывает изображение, которое загружается в хранилище объектов
type Image struct {
	ID          string // uuid, часть имени объекта
	ObjectKey   string // <prefix>/<id>.<ext>
	Data        []byte
	Size        int64
	ContentType string // Example: "image/jpeg"
}

func NewImage(id string, objectKey string, data []byte, contentType string) *Image {
	return &Image{
		ID:          id,
		ObjectKey:   objectKey,
		Data:        data,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
}
