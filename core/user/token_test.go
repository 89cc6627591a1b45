package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/phronisis/core"
)

func Test_makeToken_verifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "s3cr3t-t3st-k3y",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
	usr := User{ID: "usr1", Email: "user@test.local"}
	require.NoError(t, usr.SetPassword("or1g1nal"))

	defer func() { NowFunc = time.Now }()

	t.Run("valid token verifies", func(t *testing.T) {
		NowFunc = time.Now
		token, err := MakeToken(usr, conf)
		require.NoError(t, err)
		assert.NoError(t, verifyToken(usr, token, conf))
	})

	t.Run("token is single use per password", func(t *testing.T) {
		NowFunc = time.Now
		token, err := MakeToken(usr, conf)
		require.NoError(t, err)

		changed := usr
		require.NoError(t, changed.SetPassword("n3w-pa55"))
		assert.Equal(t, errInvalidToken, verifyToken(changed, token, conf))
	})

	t.Run("token is bound to the user", func(t *testing.T) {
		NowFunc = time.Now
		token, err := MakeToken(usr, conf)
		require.NoError(t, err)

		other := User{ID: "usr2", Email: "other@test.local"}
		require.NoError(t, other.SetPassword("or1g1nal"))
		assert.Equal(t, errInvalidToken, verifyToken(other, token, conf))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		NowFunc = time.Now
		token, err := MakeToken(usr, conf)
		require.NoError(t, err)

		NowFunc = func() time.Time { return time.Now().Add(4 * 24 * time.Hour) }
		assert.Equal(t, errTokenExpired, verifyToken(usr, token, conf))
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		NowFunc = time.Now
		for _, token := range []string{"", "nodash", "!!!-sig", "MjM0NTY-bogus"} {
			assert.Equal(t, errInvalidToken, verifyToken(usr, token, conf))
		}
	})
}

func TestEncodeUID(t *testing.T) {
	usr := User{ID: "usr1"}
	uid := EncodeUID(usr)
	id, err := decodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)
}
