package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrContentMismatch возвращается, когда хеш содержимого не совпадает с сохраненным
var ErrContentMismatch = errors.New("content hash mismatch")

// HashContent хеширует каноническую сериализацию полей записи с использованием SHA256
// Детерминирован: одинаковый вход дает одинаковый hex-encoded хеш на клиенте и сервере
func HashContent(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("content cannot be empty")
	}

	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:]), nil
}

// VerifyContent проверяет, что хеш содержимого совпадает с сохраненным
// Несовпадение означает повреждение данных, а не конфликт
func VerifyContent(content []byte, storedHash string) error {
	if storedHash == "" {
		return fmt.Errorf("stored hash cannot be empty")
	}

	computedHash, err := HashContent(content)
	if err != nil {
		return fmt.Errorf("failed to compute content hash: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(computedHash), []byte(storedHash)) != 1 {
		return ErrContentMismatch
	}

	return nil
}
