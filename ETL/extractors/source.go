package extractors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrNotFound возвращается, когда исходного файла нет в хранилище
var ErrNotFound = errors.New("исходный файл не найден")

const gcsScheme = "gs://"

// Source - хранилище исходных CSV-файлов
type Source interface {
	// Open открывает файл по имени. Для отсутствующего файла возвращается ErrNotFound
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
	Close() error
}

// NewSource выбирает хранилище по пути: gs://bucket/prefix или локальный каталог
func NewSource(ctx context.Context, dataPath, credentialsFile string) (Source, error) {
	if strings.HasPrefix(dataPath, gcsScheme) {
		return NewGCSSource(ctx, dataPath, credentialsFile)
	}
	return NewLocalSource(dataPath), nil
}

// LocalSource читает файлы из локального каталога
type LocalSource struct {
	dir string
}

// NewLocalSource создает новый экземпляр LocalSource
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// Open открывает файл каталога
func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", name, err)
	}
	return f, nil
}

func (s *LocalSource) String() string {
	return s.dir
}

// Close ничего не делает для локального каталога
func (s *LocalSource) Close() error {
	return nil
}

// GCSSource читает файлы из бакета Google Cloud Storage
type GCSSource struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSource создает клиент GCS для пути вида gs://bucket/prefix.
// Без файла учетных данных используются Application Default Credentials
func NewGCSSource(ctx context.Context, uri, credentialsFile string) (*GCSSource, error) {
	bucket, prefix, err := parseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента GCS: %w", err)
	}

	return &GCSSource{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func parseGCSURI(uri string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, gcsScheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("некорректный путь GCS: %q", uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// Open открывает объект бакета
func (s *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	object := path.Join(s.prefix, name)
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, object)
		}
		return nil, fmt.Errorf("ошибка открытия объекта GCS %s: %w", object, err)
	}
	return r, nil
}

func (s *GCSSource) String() string {
	return gcsScheme + path.Join(s.bucket, s.prefix)
}

// Close закрывает клиент GCS
func (s *GCSSource) Close() error {
	return s.client.Close()
}
