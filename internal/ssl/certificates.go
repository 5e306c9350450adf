// Package ssl manages the self-signed certificates used when the server runs with TLS.
// Each certificate lives in its own directory: {dir}/{name}/cert.pem and key.pem.
package ssl

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	certFile = "cert.pem"
	keyFile  = "key.pem"

	validity = 10 * 365 * 24 * time.Hour
)

// Store reads and writes certificates under one directory
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// CertInfo describes a stored certificate
type CertInfo struct {
	Name      string
	Subject   string
	DNSNames  []string
	IPs       []net.IP
	NotBefore time.Time
	NotAfter  time.Time
}

// SafeName turns a host into a directory name
func SafeName(host string) string {
	return strings.ReplaceAll(strings.TrimSpace(host), "*", "_")
}

// Generate creates a self-signed certificate for host and returns the name it was stored under.
// The certificate carries a Subject Alternative Name, which browsers require.
func (s *Store) Generate(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", errors.New("host is required")
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return "", fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"Selva Development"},
			CommonName:   host,
		},
		NotBefore: now,
		NotAfter:  now.Add(validity),

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	if ip := net.ParseIP(host); ip != nil {
		template.IPAddresses = append(template.IPAddresses, ip)
	} else {
		template.DNSNames = append(template.DNSNames, host)
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return "", fmt.Errorf("failed to create certificate: %w", err)
	}

	privBytes, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("unable to marshal ECDSA private key: %w", err)
	}

	name := SafeName(host)
	certDir := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(certDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create certs directory: %w", err)
	}

	certPath, keyPath := s.paths(name)
	if err := writePEM(certPath, "CERTIFICATE", derBytes, 0o644); err != nil {
		return "", err
	}
	log.Infof("Certificate written to %s", certPath)

	if err := writePEM(keyPath, "EC PRIVATE KEY", privBytes, 0o600); err != nil {
		return "", err
	}
	log.Infof("Private key written to %s", keyPath)

	return name, nil
}

// Load reads the key pair stored under name
func (s *Store) Load(name string) (tls.Certificate, error) {
	certPath, keyPath := s.paths(name)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load cert %s: %w", name, err)
	}
	return cert, nil
}

// List returns the names of the stored certificates, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read certs directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that both files exist, form a key pair and that the certificate has not expired
func (s *Store) Validate(name string) error {
	certPath, keyPath := s.paths(name)

	if _, err := os.Stat(certPath); os.IsNotExist(err) {
		return fmt.Errorf("certificate file not found: %s", certPath)
	}
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		return fmt.Errorf("key file not found: %s", keyPath)
	}

	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err != nil {
		return fmt.Errorf("invalid certificate or key: %w", err)
	}

	info, err := s.Info(name)
	if err != nil {
		return err
	}
	if time.Now().After(info.NotAfter) {
		return fmt.Errorf("certificate %s expired on %s", name, info.NotAfter.Format(time.DateOnly))
	}
	return nil
}

// Info parses the stored certificate
func (s *Store) Info(name string) (*CertInfo, error) {
	certPath, _ := s.paths(name)

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &CertInfo{
		Name:      name,
		Subject:   cert.Subject.String(),
		DNSNames:  cert.DNSNames,
		IPs:       cert.IPAddresses,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}, nil
}

func (s *Store) paths(name string) (string, string) {
	dir := filepath.Join(s.Dir, name)
	return filepath.Join(dir, certFile), filepath.Join(dir, keyFile)
}

func writePEM(path, blockType string, data []byte, perm os.FileMode) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	defer out.Close()

	if err := pem.Encode(out, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		return fmt.Errorf("failed to write data to %s: %w", path, err)
	}
	return nil
}
