package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommand is a stable digest of the fields Discord stores for a command.
// Ids and versions assigned by Discord are left out.
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	stable := map[string]interface{}{
		"name":        cmd.Name,
		"description": cmd.Description,
		"type":        commandType(cmd),
	}
	if cmd.DefaultMemberPermissions != nil {
		stable["default_member_permissions"] = *cmd.DefaultMemberPermissions
	}
	if cmd.DMPermission != nil {
		stable["dm_permission"] = *cmd.DMPermission
	}
	if len(cmd.Options) > 0 {
		stable["options"] = normalizeOptions(cmd.Options)
	}
	data, _ := json.Marshal(stable)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

// hashCommands maps command names to their hash.
func hashCommands(defs []*discordgo.ApplicationCommand) map[string]string {
	out := make(map[string]string, len(defs))
	for _, d := range defs {
		out[d.Name] = hashCommand(d)
	}
	return out
}

func commandType(cmd *discordgo.ApplicationCommand) discordgo.ApplicationCommandType {
	if cmd.Type == 0 {
		return discordgo.ChatApplicationCommand
	}
	return cmd.Type
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	out := make([]map[string]interface{}, len(opts))
	for i, o := range opts {
		entry := map[string]interface{}{
			"name":         o.Name,
			"description":  o.Description,
			"type":         o.Type,
			"required":     o.Required,
			"autocomplete": o.Autocomplete,
		}
		if o.MinValue != nil {
			entry["min_value"] = *o.MinValue
		}
		if o.MaxValue != 0 {
			entry["max_value"] = o.MaxValue
		}
		if o.MinLength != nil {
			entry["min_length"] = *o.MinLength
		}
		if o.MaxLength != 0 {
			entry["max_length"] = o.MaxLength
		}
		if len(o.ChannelTypes) > 0 {
			entry["channel_types"] = o.ChannelTypes
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]interface{}, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]interface{}{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
