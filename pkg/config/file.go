package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battprobe/pkg/utils/ptr"
)

// DefaultPath is where the optional config file is looked up.
const DefaultPath = "/etc/battprobe.json"

var _ Config = &File{}

// File is a Config read from an optional JSON file and then overridden by
// the environment.
type File struct {
	c         *RawFileConfig
	mu        *sync.RWMutex
	filepath  string
	lookupEnv func(string) (string, bool)
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath:  configPath,
		mu:        &sync.RWMutex{},
		lookupEnv: os.LookupEnv,
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:         c,
		mu:        &sync.RWMutex{},
		filepath:  configPath,
		lookupEnv: os.LookupEnv,
	}
}

type RawFileConfig struct {
	APIEndpoint *string `json:"apiEndpoint,omitempty"`
	DeviceSlug  *string `json:"deviceSlug,omitempty"`
}

func (f *File) APIEndpoint() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.APIEndpoint, "")
}

func (f *File) DeviceSlug() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.DeviceSlug, "")
}

func (f *File) SetAPIEndpoint(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.APIEndpoint = ptr.To(s)
}

func (f *File) SetDeviceSlug(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.DeviceSlug = ptr.To(s)
}

// Load reads the file, if any, then applies API_ENDPOINT and DEVICE_SLUG
// from the environment on top of it.
func (f *File) Load() error {
	conf, err := f.readFile()
	if err != nil {
		return err
	}

	if v, ok := f.lookupEnv(EnvAPIEndpoint); ok && v != "" {
		conf.APIEndpoint = ptr.To(v)
	}
	if v, ok := f.lookupEnv(EnvDeviceSlug); ok && v != "" {
		conf.DeviceSlug = ptr.To(v)
	}

	f.mu.Lock()
	f.c = conf
	f.mu.Unlock()

	return nil
}

func (f *File) readFile() (*RawFileConfig, error) {
	if f.filepath == "" {
		return &RawFileConfig{}, nil
	}

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("config file %s does not exist, using environment only", f.filepath)
			return &RawFileConfig{}, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		return &RawFileConfig{}, nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	return &conf, nil
}

// Validate only checks presence. The values themselves are opaque.
func (f *File) Validate() error {
	var missing []string
	if f.APIEndpoint() == "" {
		missing = append(missing, EnvAPIEndpoint)
	}
	if f.DeviceSlug() == "" {
		missing = append(missing, EnvDeviceSlug)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrConfigMissing, strings.Join(missing, ", "))
	}
	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"apiEndpoint": f.APIEndpoint(),
		"deviceSlug":  f.DeviceSlug(),
	}
}
