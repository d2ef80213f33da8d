package pairindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/eunmann/energy-ledger/pkg/fileutil"
	"github.com/relab/bbhash"
)

const (
	dirMagic      = 0x454C5044 // "ELPD"
	dirVersion    = 1
	dirHeaderSize = 24 // magic(4) + version(4) + count(8) + mphLen(8)
	dirSlotSize   = 32 // seller(8) + buyer(8) + count(8) + revenue(8)
)

var (
	// ErrInvalidDirectory indicates a corrupted or foreign directory file.
	ErrInvalidDirectory = errors.New("invalid pair directory")
	// ErrIDOutOfRange indicates a participant ID that does not fit a directory key.
	ErrIDOutOfRange = errors.New("participant id out of range")
)

// Directory is a read-only snapshot of an Index addressed through a minimal
// perfect hash. Each slot stores the pair itself, which doubles as the
// fingerprint that rejects keys outside the snapshot.
type Directory struct {
	mph   *bbhash.BBHash2
	slots []Pair
}

// packKey folds a relationship into the uint64 key hashed by bbhash.
func packKey(sellerID, buyerID int) (uint64, bool) {
	if sellerID < 0 || buyerID < 0 || uint64(sellerID) > math.MaxUint32 || uint64(buyerID) > math.MaxUint32 {
		return 0, false
	}
	return uint64(sellerID)<<32 | uint64(buyerID), true
}

// Freeze builds a Directory over every pair in idx.
func Freeze(idx *Index) (*Directory, error) {
	if idx.Len() == 0 {
		return &Directory{}, nil
	}

	keys := make([]uint64, len(idx.pairs))
	for i, p := range idx.pairs {
		k, ok := packKey(p.SellerID, p.BuyerID)
		if !ok {
			return nil, fmt.Errorf("%w: seller %d buyer %d", ErrIDOutOfRange, p.SellerID, p.BuyerID)
		}
		keys[i] = k
	}

	mph, err := bbhash.New(keys, bbhash.Gamma(2.0))
	if err != nil {
		return nil, fmt.Errorf("build MPHF: %w", err)
	}

	// bbhash positions are 1-based.
	slots := make([]Pair, len(keys))
	for i, k := range keys {
		pos := mph.Find(k)
		if pos == 0 || pos > uint64(len(slots)) {
			return nil, fmt.Errorf("MPHF lookup failed for seller %d buyer %d", idx.pairs[i].SellerID, idx.pairs[i].BuyerID)
		}
		slots[pos-1] = idx.pairs[i]
	}

	return &Directory{mph: mph, slots: slots}, nil
}

// Len returns the number of pairs in the directory.
func (d *Directory) Len() int {
	return len(d.slots)
}

// Find returns the statistics for one relationship.
func (d *Directory) Find(sellerID, buyerID int) (Pair, bool) {
	if d.mph == nil || len(d.slots) == 0 {
		return Pair{}, false
	}
	k, ok := packKey(sellerID, buyerID)
	if !ok {
		return Pair{}, false
	}

	pos := d.mph.Find(k)
	if pos == 0 || pos > uint64(len(d.slots)) {
		return Pair{}, false
	}

	p := d.slots[pos-1]
	if p.SellerID != sellerID || p.BuyerID != buyerID {
		return Pair{}, false
	}
	return p, true
}

// WriteFile persists the directory to path atomically.
func (d *Directory) WriteFile(path string) error {
	var mphData []byte
	if d.mph != nil {
		var err error
		mphData, err = d.mph.MarshalBinary()
		if err != nil {
			return fmt.Errorf("marshal MPHF: %w", err)
		}
	}

	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		header := make([]byte, dirHeaderSize)
		binary.LittleEndian.PutUint32(header[0:4], dirMagic)
		binary.LittleEndian.PutUint32(header[4:8], dirVersion)
		binary.LittleEndian.PutUint64(header[8:16], uint64(len(d.slots)))
		binary.LittleEndian.PutUint64(header[16:24], uint64(len(mphData)))
		if _, err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if _, err := w.Write(mphData); err != nil {
			return fmt.Errorf("write MPHF: %w", err)
		}

		var buf [dirSlotSize]byte
		for _, p := range d.slots {
			binary.LittleEndian.PutUint64(buf[0:8], uint64(p.SellerID))
			binary.LittleEndian.PutUint64(buf[8:16], uint64(p.BuyerID))
			binary.LittleEndian.PutUint64(buf[16:24], uint64(p.TransactionCount))
			binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(p.TotalRevenue))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("write slot: %w", err)
			}
		}
		return nil
	})
}

// OpenDirectory loads a directory written by WriteFile.
func OpenDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pair directory: %w", err)
	}
	if len(data) < dirHeaderSize {
		return nil, fmt.Errorf("%w: short header", ErrInvalidDirectory)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != dirMagic {
		return nil, fmt.Errorf("%w: magic mismatch", ErrInvalidDirectory)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != dirVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDirectory, v)
	}
	count := binary.LittleEndian.Uint64(data[8:16])
	mphLen := binary.LittleEndian.Uint64(data[16:24])

	body := data[dirHeaderSize:]
	if uint64(len(body)) < mphLen {
		return nil, fmt.Errorf("%w: size mismatch", ErrInvalidDirectory)
	}
	slotBytes := uint64(len(body)) - mphLen
	if count > slotBytes/dirSlotSize || slotBytes != count*dirSlotSize {
		return nil, fmt.Errorf("%w: size mismatch", ErrInvalidDirectory)
	}
	if count == 0 {
		return &Directory{}, nil
	}

	mph := &bbhash.BBHash2{}
	if err := mph.UnmarshalBinary(body[:mphLen]); err != nil {
		return nil, fmt.Errorf("unmarshal MPHF: %w", err)
	}

	slots := make([]Pair, count)
	rest := body[mphLen:]
	for i := range slots {
		b := rest[i*dirSlotSize : (i+1)*dirSlotSize]
		slots[i] = Pair{
			SellerID:         int(binary.LittleEndian.Uint64(b[0:8])),
			BuyerID:          int(binary.LittleEndian.Uint64(b[8:16])),
			TransactionCount: int(binary.LittleEndian.Uint64(b[16:24])),
			TotalRevenue:     math.Float64frombits(binary.LittleEndian.Uint64(b[24:32])),
		}
	}
	return &Directory{mph: mph, slots: slots}, nil
}
