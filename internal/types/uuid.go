package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex chrg_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short uppercase ID with a prefix,
// capped at 12 characters, e.g. `FAT-XY12A8Q`. Used for the payment
// reference printed in customer-facing notices.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PLAN         = "plan"
	UUID_PREFIX_CUSTOMER     = "cust"
	UUID_PREFIX_CHARGE       = "chrg"
	UUID_PREFIX_NOTIFICATION = "notif"
)

const (
	SHORT_ID_PREFIX_PAYMENT_REFERENCE = "FAT-"
)
