package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/ekurt/pkm"
)

func HistoryMarkdown(title string, series []pkm.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Total", "Change"},
		Rows:      [][]string{},
	}
	prev := 0.0
	for i, s := range series {
		change := "-"
		if i > 0 {
			change = pkm.FormatSettlement(s.Total - prev)
		}
		table.Rows = append(table.Rows, []string{
			s.Date.String(),
			pkm.FormatSettlement(s.Total),
			change,
		})
		prev = s.Total
	}
	doc.Table(table)

	return doc.String()
}

func GoalMarkdown(s pkm.GoalStatus, records []pkm.GoalRecord) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Capital Challenge")
	doc.BulletList(
		fmt.Sprintf("Start: %s with %s", s.StartDate, pkm.FormatSettlement(s.StartingCapital)),
		fmt.Sprintf("Target: %s in %d days", pkm.FormatSettlement(s.TargetCapital), s.DurationDays),
		fmt.Sprintf("Current: %s (%s of the way)", pkm.FormatSettlement(s.Current), s.Progress),
		fmt.Sprintf("Day %d of %d, %d days left", s.DaysPassed, s.DurationDays, s.DaysRemaining),
		fmt.Sprintf("Remaining: %s (%s per day)", pkm.FormatSettlement(s.Remaining), pkm.FormatSettlement(s.DailyTarget)),
	)

	if len(records) > 0 {
		doc.H2("Daily Log")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Date", "Capital", "Delta", "Days Left", "To Target"},
			Rows:      [][]string{},
		}
		for _, r := range records {
			table.Rows = append(table.Rows, []string{
				r.Date.String(),
				pkm.FormatSettlement(r.Capital),
				pkm.FormatSettlement(r.Delta),
				fmt.Sprintf("%d", r.DaysRemaining),
				pkm.FormatSettlement(r.AmountRemaining),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
