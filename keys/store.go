package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"holohash.dev/holohash/holohash"
)

// KeyStore keeps agent seeds on the local filesystem.
//
// Layout: <Directory>/<name>/root.key and <Directory>/<name>/roles/<role>.key,
// each holding a hex seed.
type KeyStore struct {
	Directory string
}

// KeyEntry describes one stored agent and the roles derived from it.
type KeyEntry struct {
	Name  string
	Agent holohash.Hash
	Roles []string
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".holohash", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) getRootKeyFilePath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "root.key")
}

func (ks *KeyStore) getRoleKeyFilePath(identifier, role string) string {
	return filepath.Join(ks.Directory, identifier, "roles", role+".key")
}

func CheckKeyName(identifier string) error {
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	for _, char := range identifier {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in identifier", char)
	}
	return nil
}

func CheckRole(role string) error {
	if role == "" {
		return errors.New("role cannot be empty")
	}
	for _, char := range role {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in role", char)
	}
	return nil
}

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(data))
	}
	return data, nil
}

func (ks *KeyStore) saveSeedToFile(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

// InitializeRootKey stores seed as the root key of identifier and returns its
// AgentPubKey.
func (ks *KeyStore) InitializeRootKey(identifier string, seed []byte, overwrite bool) (agent holohash.Hash, filePath string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return holohash.Hash{}, "", err
	}
	agent, err = AgentPubKeyFromSeed(seed)
	if err != nil {
		return holohash.Hash{}, "", err
	}
	filePath = ks.getRootKeyFilePath(identifier)
	if err := ks.saveSeedToFile(filePath, seed, overwrite); err != nil {
		return holohash.Hash{}, "", err
	}
	return agent, filePath, nil
}

// DeriveKeyFromRole derives and stores the role seed for from, returning the
// role's AgentPubKey.
func (ks *KeyStore) DeriveKeyFromRole(from, role string, overwrite bool) (agent holohash.Hash, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return holohash.Hash{}, "", err
	}
	if err := CheckRole(role); err != nil {
		return holohash.Hash{}, "", err
	}
	rootSeed, err := ks.loadSeedFromFile(ks.getRootKeyFilePath(from))
	if err != nil {
		return holohash.Hash{}, "", err
	}
	roleSeed, err := DeriveRoleSeed(rootSeed, role)
	if err != nil {
		return holohash.Hash{}, "", err
	}
	filePath = ks.getRoleKeyFilePath(from, role)
	if err := ks.saveSeedToFile(filePath, roleSeed, overwrite); err != nil {
		return holohash.Hash{}, "", err
	}
	agent, err = AgentPubKeyFromSeed(roleSeed)
	return agent, filePath, err
}

// ExportKey returns the AgentPubKey of a stored root key, or of one of its
// roles when role is non-empty.
func (ks *KeyStore) ExportKey(identifier string, role string) (holohash.Hash, error) {
	seed, err := ks.LoadSeed("", identifier, role, "")
	if err != nil {
		return holohash.Hash{}, err
	}
	return AgentPubKeyFromSeed(seed)
}

// PrivateKey loads the signing key of a stored root key or role.
func (ks *KeyStore) PrivateKey(identifier, role string) (ed25519.PrivateKey, error) {
	seed, err := ks.LoadSeed("", identifier, role, "")
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func (ks *KeyStore) LoadSeed(seedHex, signerName, signerRole, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeedFromFile(keyFile)
	}
	if signerName != "" {
		if err := CheckKeyName(signerName); err != nil {
			return nil, err
		}
		if signerRole == "" {
			return ks.loadSeedFromFile(ks.getRootKeyFilePath(signerName))
		}
		if err := CheckRole(signerRole); err != nil {
			return nil, err
		}
		return ks.loadSeedFromFile(ks.getRoleKeyFilePath(signerName, signerRole))
	}
	return nil, errors.New("no signer provided")
}

func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []KeyEntry
	for _, identifier := range identifiers {
		rolesDir := filepath.Join(ks.Directory, identifier, "roles")
		roleEntries, rerr := os.ReadDir(rolesDir)
		var roles []string
		if rerr == nil {
			for _, roleEntry := range roleEntries {
				if roleEntry.IsDir() {
					continue
				}
				if strings.HasSuffix(roleEntry.Name(), ".key") {
					roles = append(roles, strings.TrimSuffix(roleEntry.Name(), ".key"))
				}
			}
			sort.Strings(roles)
		}
		seed, err := ks.loadSeedFromFile(ks.getRootKeyFilePath(identifier))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", identifier, err)
		}
		agent, err := AgentPubKeyFromSeed(seed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", identifier, err)
		}
		result = append(result, KeyEntry{Name: identifier, Agent: agent, Roles: roles})
	}
	return result, nil
}
