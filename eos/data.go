package eos

import (
	"embed"
	"io"
	"path"
)

//go:embed data/*.csv
var data_fs embed.FS

// 組み込みの表を開く
func open_data(name string) io.Reader {
	f, err := data_fs.Open(path.Join("data", name))
	if err != nil {
		panic(err)
	}
	return f
}
