package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theErrorShouldMentionEither accepts either of two phrasings, since OS
// error texts differ across platforms.
func (testCtx *TestContext) theErrorShouldMentionEither(a, b string) error {
	if err := testCtx.theErrorShouldMention(a); err == nil {
		return nil
	}
	return testCtx.theErrorShouldMention(b)
}

func (testCtx *TestContext) theErrorShouldMentionUnknownFlag() error {
	return testCtx.theErrorShouldMention("unknown flag")
}

// theErrorShouldSuggestAvailableCommands checks cobra's suggestion text.
func (testCtx *TestContext) theErrorShouldSuggestAvailableCommands() error {
	out := strings.ToLower(testCtx.LastOutput)
	if strings.Contains(out, "did you mean") || strings.Contains(out, "unknown command") {
		return nil
	}
	return fmt.Errorf("no command suggestion in output: %s", testCtx.LastOutput)
}

// theOutputShouldContainVersionInformation checks the version line.
func (testCtx *TestContext) theOutputShouldContainVersionInformation() error {
	if strings.Contains(testCtx.LastStdout, "imgkit ") && strings.Contains(testCtx.LastStdout, "commit") {
		return nil
	}
	return fmt.Errorf("output does not contain version information: %s", testCtx.LastStdout)
}

// RegisterErrorSteps registers error-related step definitions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the error should mention "([^"]*)" or "([^"]*)"$`, testCtx.theErrorShouldMentionEither)
	sc.Step(`^the error should mention an unknown flag$`, testCtx.theErrorShouldMentionUnknownFlag)
	sc.Step(`^the error should suggest available commands$`, testCtx.theErrorShouldSuggestAvailableCommands)
	sc.Step(`^the output should contain version information$`, testCtx.theOutputShouldContainVersionInformation)
}
