package builder

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fape-labs/adrena-client/internal/common"
	"github.com/fape-labs/adrena-client/internal/txerror"
)

// Nickname length limits enforced by the program.
const (
	minNicknameLen = 3
	maxNicknameLen = 24
)

type profileArgs struct {
	Nickname string
}

func validateNickname(nickname string) error {
	if len(nickname) < minNicknameLen || len(nickname) > maxNicknameLen {
		return txerror.Configuration(fmt.Sprintf("nickname must be %d-%d bytes, got %d", minNicknameLen, maxNicknameLen, len(nickname)))
	}
	return nil
}

// InitUserProfile creates the owner's profile account lazily, before the
// first trade that records statistics on it.
func (b *Builder) InitUserProfile(owner solana.PublicKey, nickname string) (*Built, error) {
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}
	profile, _ := b.registry.UserProfile(owner)

	data, err := encodeInstruction("init_user_profile", &profileArgs{Nickname: nickname})
	if err != nil {
		return nil, err
	}

	return &Built{
		Instruction: solana.NewInstruction(b.programID, solana.AccountMetaSlice{
			solana.NewAccountMeta(owner, true, true),
			solana.NewAccountMeta(profile, true, false),
			solana.NewAccountMeta(common.SystemProgramID, false, false),
		}, data),
	}, nil
}

// EditUserProfile renames an existing profile.
func (b *Builder) EditUserProfile(owner solana.PublicKey, nickname string) (*Built, error) {
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}
	profile, _ := b.registry.UserProfile(owner)

	data, err := encodeInstruction("edit_user_profile", &profileArgs{Nickname: nickname})
	if err != nil {
		return nil, err
	}

	return &Built{
		Instruction: solana.NewInstruction(b.programID, solana.AccountMetaSlice{
			solana.NewAccountMeta(owner, true, true),
			solana.NewAccountMeta(profile, true, false),
		}, data),
	}, nil
}
