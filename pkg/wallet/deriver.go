package wallet

// Deriver derives child public keys and puzzle hashes below an intermediate
// extended public key. It's safe for concurrent use.
type Deriver struct {
	path DerivationPath
}

// NewDeriver returns a Deriver that reaches the intermediate key from a root
// one through the given path. The path must be unhardened since roots may be
// watch-only.
func NewDeriver(path DerivationPath) (*Deriver, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}
	if !path.IsUnhardened() {
		return nil, ErrHardenedDerivationPath
	}
	return &Deriver{append(DerivationPath{}, path...)}, nil
}

// IntermediateKey returns the serialized intermediate extended public key
// for the given root extended key.
func (d *Deriver) IntermediateKey(rootPublicKey string) (string, error) {
	key, err := IntermediatePublicKey(rootPublicKey, d.path)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// DeriveChild returns the compressed public key at the given index below the
// intermediate key.
func (d *Deriver) DeriveChild(intermediateKey string, index uint32) ([]byte, error) {
	key, err := parseExtendedKey(intermediateKey)
	if err != nil {
		return nil, err
	}
	if key.IsPrivate() {
		return nil, ErrNotPublicKey
	}
	return DeriveChildPublicKey(key, index)
}

// PuzzleHash returns the puzzle hash of a compressed child public key.
func (d *Deriver) PuzzleHash(publicKey []byte) ([PuzzleHashLength]byte, error) {
	return PuzzleHash(publicKey)
}
