package ipfs

import (
	"flag"
	"os"
	"strconv"

	"holohash.dev/holohash/storage"
	"holohash.dev/holohash/storage/casregistry"
)

var (
	flagBin  string
	flagPath string
	flagPin  bool
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Local Kubo repository via the ipfs CLI",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "", "Path to the ipfs binary (for --backend=ipfs)")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS_PATH for the ipfs CLI (for --backend=ipfs)")
			fs.BoolVar(&flagPin, "ipfs-pin", false, "Pin blocks on put (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return New(options(flagBin, flagPath, flagPin)), nil, nil
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			pin := false
			if v := cfg["pin"]; v != "" {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return nil, nil, err
				}
				pin = b
			}
			return New(options(cfg["ipfs-bin"], cfg["ipfs-path"], pin)), nil, nil
		},
	})
}

func options(bin, repo string, pin bool) Options {
	opts := Options{Bin: bin, Pin: pin}
	if repo != "" {
		opts.Env = append(os.Environ(), "IPFS_PATH="+repo)
	}
	return opts
}
