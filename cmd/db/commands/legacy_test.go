package commands_test

import (
	"strings"
	"testing"

	"github.com/socialfolio/folio/cmd/db/commands"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFollowEdges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []types.FollowEdge
		wantErr error
	}{
		{
			name:  "with header",
			input: "follower_id,followed_id\n1,2\n3, 1\n",
			want:  []types.FollowEdge{{FollowerID: 1, FollowedID: 2}, {FollowerID: 3, FollowedID: 1}},
		},
		{
			name:  "without header",
			input: "5,6\n",
			want:  []types.FollowEdge{{FollowerID: 5, FollowedID: 6}},
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name:    "not a number",
			input:   "1,2\nx,3\n",
			wantErr: commands.ErrMalformedEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			edges, err := commands.ReadFollowEdges(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, edges)
		})
	}
}

func TestReadFollowEdgesRejectsWrongFieldCount(t *testing.T) {
	t.Parallel()

	_, err := commands.ReadFollowEdges(strings.NewReader("1,2,3\n"))
	require.Error(t, err)
}
