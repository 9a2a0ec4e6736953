package results

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// WriteTextFile persists result text with the fallback chain the
// companion harness uses: UTF-8 first, GBK transcoding second, and a
// raw byte write as the last resort. Data is never silently dropped and
// the chain is never retried.
func WriteTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err == nil {
		return nil
	} else {
		log.WithError(err).WithField("path", path).Warn("utf-8 write failed, retrying as gbk")
	}

	if gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(content)); err == nil {
		if err := os.WriteFile(path, gbk, 0o644); err == nil {
			return nil
		} else {
			log.WithError(err).WithField("path", path).Warn("gbk write failed, retrying in binary mode")
		}
	} else {
		log.WithError(err).WithField("path", path).Warn("gbk transcoding failed, retrying in binary mode")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "binary-mode open of %s", path)
	}
	defer f.Close()

	if _, err := f.Write([]byte(content)); err != nil {
		return errors.Wrapf(err, "binary-mode write of %s", path)
	}
	return nil
}
