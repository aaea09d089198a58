package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Algorithm      = "argon2id"
	minArgon2MemoryKB    = 8 * 1024
	minArgon2SaltLength  = 16
	minArgon2KeyLength   = 16
	defaultArgon2Memory  = 64 * 1024
	defaultArgon2Time    = 3
	defaultArgon2Threads = 2
)

type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      defaultArgon2Memory,
		Time:        defaultArgon2Time,
		Parallelism: defaultArgon2Threads,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher hashes account passwords into PHC strings:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
type Argon2Hasher struct {
	cfg Argon2Config
}

func NewArgon2Hasher(cfg Argon2Config) (*Argon2Hasher, error) {
	switch {
	case cfg.Memory < minArgon2MemoryKB:
		return nil, fmt.Errorf("argon2 memory must be >= %d KB", minArgon2MemoryKB)
	case cfg.Time < 1:
		return nil, errors.New("argon2 time must be >= 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2 parallelism must be >= 1")
	case cfg.SaltLength < minArgon2SaltLength:
		return nil, fmt.Errorf("argon2 salt length must be >= %d", minArgon2SaltLength)
	case cfg.KeyLength < minArgon2KeyLength:
		return nil, fmt.Errorf("argon2 key length must be >= %d", minArgon2KeyLength)
	}
	return &Argon2Hasher{cfg: cfg}, nil
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Parallelism, h.cfg.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		h.cfg.Memory, h.cfg.Time, h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches digest. A digest that cannot be
// parsed never matches.
func (h *Argon2Hasher) Verify(password, digest string) bool {
	p, ok := parseArgon2Digest(digest)
	if !ok {
		return false
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(computed, p.key) == 1
}

type argon2Digest struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parseArgon2Digest(digest string) (*argon2Digest, bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2Algorithm {
		return nil, false
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, false
	}

	var d argon2Digest
	var seen int
	for _, kv := range strings.Split(parts[3], ",") {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			return nil, false
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v < minArgon2MemoryKB {
				return nil, false
			}
			d.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v < 1 {
				return nil, false
			}
			d.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || v < 1 {
				return nil, false
			}
			d.parallelism = uint8(v)
		default:
			return nil, false
		}
		seen++
	}
	if seen != 3 || d.memory == 0 || d.time == 0 || d.parallelism == 0 {
		return nil, false
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) < minArgon2SaltLength {
		return nil, false
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) < minArgon2KeyLength {
		return nil, false
	}
	return &d, true
}
