// Package file 平面文件存储后端
//
// 每种实体一个JSON文件(books.json、loans.json...),启动时整表装入内存,
// 每次写操作后整表重写。写入先落临时文件再rename,进程崩溃不会留下半个文件。
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Open 打开dir下的数据文件,返回挂载了落盘回调的内存存储
func Open(dir string) (*memory.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	store := memory.NewStore()
	steps := []error{
		attach(dir, "books", store.Books.Table),
		attach(dir, "authors", store.Authors),
		attach(dir, "publishers", store.Publishers),
		attach(dir, "categories", store.Categories),
		attach(dir, "members", store.Members.Table),
		attach(dir, "staff", store.Staff.Table),
		attach(dir, "loans", store.Loans.Table),
		attach(dir, "reservations", store.Reservations.Table),
		attach(dir, "reviews", store.Reviews.Table),
	}
	if err := errors.Join(steps...); err != nil {
		return nil, err
	}
	return store, nil
}

// attach 装载已有数据并注册落盘回调
func attach[T any, P memory.EntityPtr[T]](dir, name string, table *memory.Table[T, P]) error {
	path := filepath.Join(dir, name+".json")

	rows, err := load[T](path)
	if err != nil {
		return fmt.Errorf("读取%s失败: %w", path, err)
	}
	table.Load(rows)

	table.OnChange(func(rows []T) error {
		return save(path, rows)
	})
	return nil
}

func load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func save[T any](path string, rows []T) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
