package summary

import "github.com/mitchellh/mapstructure"

// TimeSettings is the Game_Summary.Time nested block.
type TimeSettings struct {
	TimeUnit         string `mapstructure:"Time_Unit"`
	TotalTime        string `mapstructure:"Total_Time"`
	LeastTimePerMove string `mapstructure:"Least_Time_Per_Move"`
	Byoyomi          string `mapstructure:"Byoyomi"`
}

// GameSummary is the typed decoding of a parsed Game_Summary block. Field
// names follow the wire keys (§3); Position is kept verbatim, not parsed,
// so the record reader can later reconstruct the initial State from it.
type GameSummary struct {
	ProtocolVersion string       `mapstructure:"Protocol_Version"`
	ProtocolMode    string       `mapstructure:"Protocol_Mode"`
	Format          string       `mapstructure:"Format"`
	Declaration     string       `mapstructure:"Declaration"`
	GameID          string       `mapstructure:"Game_ID"`
	NamePlus        string       `mapstructure:"Name+"`
	NameMinus       string       `mapstructure:"Name-"`
	YourTurn        string       `mapstructure:"Your_Turn"`
	RematchOnDraw   string       `mapstructure:"Rematch_On_Draw"`
	ToMove          string       `mapstructure:"To_Move"`
	Position        string       `mapstructure:"Position"`
	Time            TimeSettings `mapstructure:"Time"`
}

// Condition is the full decoded tree handed back by ParseCondition: the
// typed Game_Summary plus the raw tree for any unknown/extension keys a
// caller still wants to inspect.
type Condition struct {
	GameSummary GameSummary
	Raw         map[string]any
}

// ParseCondition parses lines (as Parse does) and decodes the nested
// Game_Summary block into a typed GameSummary via mapstructure, the same
// "parse to a loose tree, then decode into a typed struct" shape used
// elsewhere in the pack for config loading.
func ParseCondition(lines []string) (*Condition, error) {
	tree, err := Parse(lines)
	if err != nil {
		return nil, err
	}

	raw, _ := tree["Game_Summary"].(map[string]any)

	var gs GameSummary
	if raw != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &gs,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, err
		}
	}

	return &Condition{GameSummary: gs, Raw: tree}, nil
}
