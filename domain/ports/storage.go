package ports

import "io"

// StoragePort คือ interface หลักสำหรับ blob storage
// ทำให้เปลี่ยน storage provider ได้ง่าย (Local, MinIO, R2, S3)
type StoragePort interface {
	// UploadFile อัปโหลดไฟล์ไปยัง storage
	// path: เส้นทางที่จะเก็บไฟล์ (เช่น "products/my-product/videos/abc.mp4")
	// return: URL ที่เข้าถึงไฟล์ได้
	UploadFile(file io.Reader, path string, contentType string) (string, error)

	// DeleteFile ลบไฟล์จาก storage
	DeleteFile(path string) error

	// DeleteFolder ลบไฟล์ทั้งหมดใต้ prefix
	DeleteFolder(prefix string) error

	// GetFileURL รับ URL สำหรับเข้าถึงไฟล์
	GetFileURL(path string) string

	// GetFileContent อ่านไฟล์จาก storage
	GetFileContent(path string) (io.ReadCloser, string, error)

	// ListFolder รายชื่อไฟล์ใต้ prefix
	ListFolder(prefix string) ([]string, error)

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
