package esri2wkt

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/tecbot/gorocksdb"
)

// Workspace is the scratch store intermediate layers live in for the
// duration of one run. Everything is removed on Close.
type Workspace struct {
	path string
	db   *gorocksdb.DB

	wo *gorocksdb.WriteOptions
	ro *gorocksdb.ReadOptions
}

// record is the stored form of a Feature.
type record struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	WKT   string `json:"wkt"`
}

func OpenWorkspace(dir, name string) (*Workspace, error) {
	tmp, err := ioutil.TempDir(dir, fmt.Sprintf("esri2wkt-%s-", name))
	if err != nil {
		return nil, err
	}

	opts := gorocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetErrorIfExists(true)
	db, err := gorocksdb.OpenDb(opts, path.Join(tmp, "ldb"))
	if err != nil {
		os.RemoveAll(tmp)
		return nil, err
	}

	ws := &Workspace{
		path: tmp,
		db:   db,
		wo:   gorocksdb.NewDefaultWriteOptions(),
		ro:   gorocksdb.NewDefaultReadOptions(),
	}
	ws.ro.SetFillCache(false)
	return ws, nil
}

func (w *Workspace) Path() string {
	return w.path
}

func (w *Workspace) Close() error {
	w.db.Close()
	w.wo.Destroy()
	w.ro.Destroy()
	return os.RemoveAll(w.path)
}

func layerPrefix(layer string) string {
	return fmt.Sprintf("layer/%s/", layer)
}

func recordKey(layer string, index int) []byte {
	return []byte(fmt.Sprintf("%s%010d", layerPrefix(layer), index))
}

func (w *Workspace) put(layer string, records []*record) error {
	wb := gorocksdb.NewWriteBatch()
	defer wb.Destroy()
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		wb.Put(recordKey(layer, r.Index), data)
	}
	return w.db.Write(w.wo, wb)
}

func (w *Workspace) get(layer string, index int) (*record, error) {
	n, err := w.db.Get(w.ro, recordKey(layer, index))
	if err != nil {
		return nil, err
	}
	defer n.Free()

	if n.Size() == 0 {
		return nil, nil
	}

	r := &record{}
	err = json.Unmarshal(n.Data(), r)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// scan returns the records of a layer in index order.
func (w *Workspace) scan(layer string) ([]*record, error) {
	it := w.db.NewIterator(w.ro)
	defer it.Close()

	prefix := []byte(layerPrefix(layer))
	result := make([]*record, 0)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		value := it.Value()
		r := &record{}
		err := json.Unmarshal(value.Data(), r)
		value.Free()
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	err := it.Err()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (w *Workspace) drop(layer string) error {
	it := w.db.NewIterator(w.ro)
	defer it.Close()

	wb := gorocksdb.NewWriteBatch()
	defer wb.Destroy()

	prefix := []byte(layerPrefix(layer))
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Key()
		wb.Delete(append([]byte(nil), key.Data()...))
		key.Free()
	}

	return w.db.Write(w.wo, wb)
}
