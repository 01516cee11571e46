package common

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"time"
)

// HashAlgo 摘要算法
type HashAlgo string

const (
	MD5    HashAlgo = "md5"
	SHA1   HashAlgo = "sha1"
	SHA256 HashAlgo = "sha256"
	SHA384 HashAlgo = "sha384"
	SHA512 HashAlgo = "sha512"
)

// Encoding 签名输出编码
type Encoding string

const (
	Hex    Encoding = "hex"
	Base64 Encoding = "base64"
)

func (a HashAlgo) newHash() func() hash.Hash {
	switch a {
	case MD5:
		return md5.New
	case SHA1:
		return sha1.New
	case SHA384:
		return sha512.New384
	case SHA512:
		return sha512.New
	default:
		return sha256.New
	}
}

func encode(b []byte, enc Encoding) string {
	if enc == Base64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// HMACBytes 计算 HMAC 原始字节
func HMACBytes(message, secret []byte, algo HashAlgo) []byte {
	mac := hmac.New(algo.newHash(), secret)
	mac.Write(message)
	return mac.Sum(nil)
}

// HMAC 计算 HMAC 并按 enc 编码
func HMAC(message, secret []byte, algo HashAlgo, enc Encoding) string {
	return encode(HMACBytes(message, secret, algo), enc)
}

// HashBytes 计算摘要原始字节
func HashBytes(message []byte, algo HashAlgo) []byte {
	h := algo.newHash()()
	h.Write(message)
	return h.Sum(nil)
}

// Hash 计算摘要并按 enc 编码
func Hash(message []byte, algo HashAlgo, enc Encoding) string {
	return encode(HashBytes(message, algo), enc)
}

// Base64Encode 标准 base64 编码
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode 标准 base64 解码
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// ISO8601 毫秒精度的 UTC 时间字符串（用于OKX）
func ISO8601(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
