package esri2wkt

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// outputFile is created before any work starts so an unwritable path is
// reported up front. Rows only reach the final name on commit.
type outputFile struct {
	name string
	tmp  *os.File
	done bool
}

func createOutput(base string) (*outputFile, error) {
	name := base + ".csv"
	dir := filepath.Dir(name)

	tmp, err := ioutil.TempFile(dir, fmt.Sprintf(".%s.*.tmp", filepath.Base(name)))
	if err != nil {
		return nil, configErrorf(err, "output %s is not writable", name)
	}

	return &outputFile{
		name: name,
		tmp:  tmp,
	}, nil
}

func (o *outputFile) Commit(t *OutputTable) error {
	err := t.WriteCSV(o.tmp)
	if err != nil {
		return err
	}

	err = o.tmp.Chmod(0644)
	if err != nil {
		return err
	}

	err = o.tmp.Close()
	if err != nil {
		return err
	}

	err = os.Rename(o.tmp.Name(), o.name)
	if err != nil {
		return err
	}

	o.done = true
	return nil
}

// Discard removes the temporary file unless the output was committed.
func (o *outputFile) Discard() {
	if o.done {
		return
	}
	o.tmp.Close()
	os.Remove(o.tmp.Name())
}
