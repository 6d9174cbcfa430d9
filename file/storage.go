package file

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	//MemoryFSRoot default memory backed directory shared by the orchestrator and workers
	MemoryFSRoot = "/dev/shm"

	Prefix       = "gochunk_"
	PrefixInput  = Prefix + "input_"
	PrefixOutput = Prefix + "output_"
	Suffix       = ".gob"
)

//FileStorage file operations needed by the shared file transport
type FileStorage interface {
	Exists(fileName string) (ok bool, err error)
	Open(fileName string) (reader io.ReadCloser, err error)
	Create(fileName string) (writer io.WriteCloser, err error)
	Remove(fileName string) error
}

type LocalFileSystem struct {
}

func (fs *LocalFileSystem) Exists(fileName string) (bool, error) {
	_, err := os.Stat(fileName)
	if err != nil && os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (fs *LocalFileSystem) Open(fileName string) (io.ReadCloser, error) {
	return os.Open(fileName)
}

// O_EXCL so that two handles never share a path
func (fs *LocalFileSystem) Create(fileName string) (io.WriteCloser, error) {
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
}

//Remove deletes the file, a file that is already gone is not an error
func (fs *LocalFileSystem) Remove(fileName string) error {
	err := os.Remove(fileName)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

//TempName unique file name in dir with the given prefix
func TempName(dir, prefix string) string {
	return filepath.Join(dir, prefix+uuid.New().String()+Suffix)
}

//CheckDir checks that dir exists and that files can be created and removed in it
func CheckDir(fs FileStorage, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "memory directory %v is not available", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("memory directory %v is not a directory", dir)
	}
	name := TempName(dir, Prefix+"check_")
	w, err := fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "memory directory %v is not writable", dir)
	}
	if err = w.Close(); err != nil {
		fs.Remove(name)
		return errors.Wrapf(err, "memory directory %v is not writable", dir)
	}
	return fs.Remove(name)
}
