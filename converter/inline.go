package converter

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// StatusColors is the closed set of colors a status chip may carry; anything
// else degrades to neutral on the reverse direction.
var StatusColors = map[string]bool{
	"green":   true,
	"red":     true,
	"yellow":  true,
	"blue":    true,
	"purple":  true,
	"neutral": true,
}

// convertMention renders a mention as the {user:<id>} inline token.
func convertMention(node Node, ctx Context) (string, error) {
	id := node.GetStringAttr("id", "")
	if id == "" {
		ctx.Warn(WarningMissingAttribute, node.Type, "mention missing id, falling back to text")
		return node.GetStringAttr("text", ""), nil
	}
	return fmt.Sprintf("{user:%s}", id), nil
}

// convertStatus renders a status chip as {status:<text>|color:<color>}.
func convertStatus(node Node, ctx Context) (string, error) {
	text := node.GetStringAttr("text", "")
	color := node.GetStringAttr("color", "neutral")
	return fmt.Sprintf("{status:%s|color:%s}", text, color), nil
}

// convertDate renders a date node as {date:<iso>}. ADF stores the timestamp
// as epoch milliseconds in a string attribute; second-resolution values are
// accepted too (cutoff heuristic).
func convertDate(node Node, ctx Context) (string, error) {
	timestamp := node.GetStringAttr("timestamp", "")
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		if ctx.Config.Strict {
			return "", fmt.Errorf("date node has invalid timestamp %q", timestamp)
		}
		ctx.Warn(WarningMissingAttribute, node.Type, fmt.Sprintf("invalid date timestamp %q", timestamp))
		return "{date:invalid}", nil
	}

	if ts > 10000000000 {
		ts /= 1000
	}
	return fmt.Sprintf("{date:%s}", time.Unix(ts, 0).UTC().Format(ctx.Config.DateFormat)), nil
}

// convertEmoji renders the emoji shortcode, falling back to the fallback
// glyph when no shortName is present.
func convertEmoji(node Node, ctx Context) (string, error) {
	if shortName := node.GetStringAttr("shortName", ""); shortName != "" {
		return shortName, nil
	}
	return node.GetStringAttr("fallback", ""), nil
}

// convertInlineCard renders [title](adf://card/<url-encoded href>). The title
// falls back through data.title, data.name, then "Card". A card with no url
// degrades to the literal text [Card] with no metadata comment; that loses
// the distinction between "no data" and "data omitted" (known fidelity gap).
func convertInlineCard(node Node, ctx Context) (string, error) {
	cardURL := node.GetStringAttr("url", "")
	if cardURL == "" {
		return "[Card]", nil
	}

	title := "Card"
	if data, ok := node.Attrs["data"].(map[string]interface{}); ok {
		if t, ok := data["title"].(string); ok && t != "" {
			title = t
		} else if name, ok := data["name"].(string); ok && name != "" {
			title = name
		}
	}

	markdown := fmt.Sprintf("[%s](adf://card/%s)", title, url.QueryEscape(cardURL))
	if comment := MetadataComment("inlineCard", node.Attrs); comment != "" {
		markdown += " " + comment
	}
	return markdown, nil
}
