// Command preview serves generated spritesheets over SSH as terminal
// half-block art: ssh -t -p 2222 localhost to browse the output dir.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"os"

	"go.uber.org/zap"

	"spriteforge/internal/preview"
)

func main() {
	var (
		addr    = flag.String("addr", ":2222", "listen address")
		hostKey = flag.String("host-key", "host_key", "SSH host key path (generated if missing)")
		root    = flag.String("dir", "out", "directory of PNGs to browse")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := ensureHostKey(*hostKey); err != nil {
		logger.Fatal("host key", zap.Error(err))
	}

	server := preview.NewServer(*addr, *hostKey, *root, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("preview server", zap.Error(err))
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
