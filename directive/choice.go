package directive

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

const maxNumberedAnswers = 20

var letterLabels = []string{"a", "b", "c", "d", "e"}

func numberLabels(n int) []string {
	ret := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, strconv.Itoa(i))
	}
	return ret
}

// RST multiple choice: answer_a .. answer_e, feedback_a .. feedback_e.
var mchoiceLetterHandler = mchoiceHandler(letterLabels, "answer_", "feedback_")

// Markdown multiple choice: answer1 .. answer20, feedback1 .. feedback20.
var mchoiceNumberHandler = mchoiceHandler(numberLabels(maxNumberedAnswers), "answer", "feedback")

func mchoiceHandler(labels []string, answerPrefix, feedbackPrefix string) HandlerFunc {
	return func(in *Input) any {
		bb := appendPara(nothing(), in.Text)

		items := []pandoc.InlineList{}
		for _, l := range labels {
			answer := in.Option(answerPrefix + l)
			if answer == "" {
				continue
			}
			line := l + ") " + answer
			if fb := in.Option(feedbackPrefix + l); fb != "" {
				line += " | " + fb
			}
			items = append(items, pandoc.Text(line))
		}
		if len(items) > 0 {
			bb = append(bb, bullets(items))
		}

		if correct := correctLabels(in.Option("correct")); len(correct) > 0 {
			bb = append(bb, para("Correct: "+strings.Join(correct, ", ")))
		}
		return bb
	}
}

// correctLabels splits a comma separated answer list, drops duplicates and
// sorts it. Numeric labels sort by value.
func correctLabels(s string) []string {
	seen := map[string]bool{}
	ret := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ret = append(ret, p)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		a, errA := strconv.Atoi(ret[i])
		b, errB := strconv.Atoi(ret[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ret[i] < ret[j]
	})
	return ret
}

const (
	maxMatches     = 20
	matchSeparator = "|||"
)

func dragndropHandler(in *Input) any {
	bb := appendPara(nothing(), in.Text)

	items := []pandoc.InlineList{}
	for i := 1; i <= maxMatches; i++ {
		v, ok := in.Options[fmt.Sprintf("match_%d", i)]
		if !ok {
			continue
		}
		line := strings.TrimSpace(v)
		if parts := strings.Split(v, matchSeparator); len(parts) == 2 {
			line = strings.TrimSpace(parts[0]) + " → " + strings.TrimSpace(parts[1])
		}
		if line == "" {
			continue
		}
		items = append(items, pandoc.Text(line))
	}
	if len(items) > 0 {
		bb = append(bb, bullets(items))
	}
	return bb
}
