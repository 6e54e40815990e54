package runner_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/runner"
)

const (
	testSubtestNameTemplateConstant = "%d_%s"
	testStartedLabelConstant        = "Running make build"
	testStopCallConstant            = "stop"
	testStartCallPrefixConstant     = "start:"
	testStandardOutputConstant      = "built\n"
	testStandardErrorConstant       = "warning: deprecated target\n"
)

var testCommand = execshell.ShellCommand{
	Name:    execshell.CommandName("make"),
	Details: execshell.CommandDetails{Arguments: []string{"build"}},
}

type recordingStatusIndicator struct {
	mutex sync.Mutex
	calls []string
}

func (recorder *recordingStatusIndicator) Start(label string) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.calls = append(recorder.calls, testStartCallPrefixConstant+label)
}

func (recorder *recordingStatusIndicator) Stop() {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.calls = append(recorder.calls, testStopCallConstant)
}

func (recorder *recordingStatusIndicator) Calls() []string {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	duplicated := make([]string, len(recorder.calls))
	copy(duplicated, recorder.calls)
	return duplicated
}

type stubCommandRunner struct {
	result    execshell.ExecutionResult
	runError  error
	commands  []execshell.ShellCommand
	started   chan struct{}
	release   chan struct{}
	mutex     sync.Mutex
	startOnce sync.Once
}

func (stub *stubCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	stub.mutex.Lock()
	stub.commands = append(stub.commands, command)
	stub.mutex.Unlock()

	if stub.started != nil {
		stub.startOnce.Do(func() { close(stub.started) })
	}
	if stub.release != nil {
		select {
		case <-stub.release:
		case <-executionContext.Done():
			return execshell.ExecutionResult{}, executionContext.Err()
		}
	}
	return stub.result, stub.runError
}

type manualClock struct {
	mutex   sync.Mutex
	current time.Time
}

func (clock *manualClock) Now() time.Time {
	clock.mutex.Lock()
	defer clock.mutex.Unlock()
	return clock.current
}

func (clock *manualClock) Advance(duration time.Duration) {
	clock.mutex.Lock()
	defer clock.mutex.Unlock()
	clock.current = clock.current.Add(duration)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, missingIndicatorError := runner.NewService(runner.Dependencies{Runner: &stubCommandRunner{}})
	require.ErrorIs(testInstance, missingIndicatorError, runner.ErrIndicatorNotConfigured)

	_, missingRunnerError := runner.NewService(runner.Dependencies{Indicator: &recordingStatusIndicator{}})
	require.ErrorIs(testInstance, missingRunnerError, execshell.ErrCommandRunnerNotConfigured)

	service, serviceError := runner.NewService(runner.Dependencies{Runner: &stubCommandRunner{}, Indicator: &recordingStatusIndicator{}})
	require.NoError(testInstance, serviceError)
	require.NotNil(testInstance, service)
}

func TestServiceRun(testInstance *testing.T) {
	testCases := []struct {
		name                   string
		label                  string
		result                 execshell.ExecutionResult
		runError               error
		expectedCalls          []string
		expectedStandardOutput string
		expectedStandardError  string
		expectedConsoleLevel   zapcore.Level
		expectedExitCode       int
		expectExecutionError   bool
	}{
		{
			name:                   "successful_command",
			result:                 execshell.ExecutionResult{StandardOutput: testStandardOutputConstant},
			expectedCalls:          []string{testStartCallPrefixConstant + testStartedLabelConstant, testStopCallConstant},
			expectedStandardOutput: testStandardOutputConstant,
			expectedConsoleLevel:   zapcore.InfoLevel,
		},
		{
			name:                  "failing_command",
			label:                 "building",
			result:                execshell.ExecutionResult{StandardError: testStandardErrorConstant, ExitCode: 2},
			expectedCalls:         []string{testStartCallPrefixConstant + "building", testStopCallConstant},
			expectedStandardError: testStandardErrorConstant,
			expectedConsoleLevel:  zapcore.WarnLevel,
			expectedExitCode:      2,
		},
		{
			name:                 "command_could_not_start",
			runError:             errors.New("executable file not found"),
			expectedCalls:        []string{testStartCallPrefixConstant + testStartedLabelConstant, testStopCallConstant},
			expectedConsoleLevel: zapcore.ErrorLevel,
			expectExecutionError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			statusIndicator := &recordingStatusIndicator{}
			consoleCore, consoleLogs := observer.New(zapcore.InfoLevel)
			service, serviceError := runner.NewService(runner.Dependencies{
				ConsoleLogger: zap.New(consoleCore),
				Runner:        &stubCommandRunner{result: testCase.result, runError: testCase.runError},
				Indicator:     statusIndicator,
			})
			require.NoError(testInstance, serviceError)

			var standardOutput bytes.Buffer
			var standardError bytes.Buffer
			result, runError := service.Run(context.Background(), runner.Options{
				Command:        testCommand,
				Label:          testCase.label,
				StandardOutput: &standardOutput,
				StandardError:  &standardError,
			})

			require.Equal(testInstance, testCase.expectedCalls, statusIndicator.Calls())
			require.Equal(testInstance, testCase.expectedStandardOutput, standardOutput.String())
			require.Equal(testInstance, testCase.expectedStandardError, standardError.String())
			require.Equal(testInstance, 1, consoleLogs.Len())
			require.Equal(testInstance, testCase.expectedConsoleLevel, consoleLogs.All()[0].Level)

			switch {
			case testCase.expectExecutionError:
				var executionError execshell.CommandExecutionError
				require.ErrorAs(testInstance, runError, &executionError)
			case testCase.expectedExitCode != 0:
				var failedError execshell.CommandFailedError
				require.ErrorAs(testInstance, runError, &failedError)
				require.Equal(testInstance, testCase.expectedExitCode, failedError.Result.ExitCode)
				require.Equal(testInstance, testCase.expectedExitCode, result.ExitCode)
			default:
				require.NoError(testInstance, runError)
			}
		})
	}
}

func TestServiceRunRefreshesElapsedLabel(testInstance *testing.T) {
	statusIndicator := &recordingStatusIndicator{}
	clock := &manualClock{current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	tickerChannel := make(chan time.Time)
	tickerStopped := make(chan struct{})
	var requestedInterval time.Duration
	commandRunner := &stubCommandRunner{started: make(chan struct{}), release: make(chan struct{})}

	service, serviceError := runner.NewService(runner.Dependencies{
		Runner:    commandRunner,
		Indicator: statusIndicator,
		Now:       clock.Now,
		NewTicker: func(interval time.Duration) (<-chan time.Time, func()) {
			requestedInterval = interval
			return tickerChannel, func() { close(tickerStopped) }
		},
	})
	require.NoError(testInstance, serviceError)

	runFinished := make(chan error, 1)
	go func() {
		_, runError := service.Run(context.Background(), runner.Options{
			Command:        testCommand,
			ShowElapsed:    true,
			ElapsedRefresh: 500 * time.Millisecond,
		})
		runFinished <- runError
	}()

	<-commandRunner.started
	clock.Advance(3*time.Second + 400*time.Millisecond)
	tickerChannel <- clock.Now()

	require.Eventually(testInstance, func() bool {
		return len(statusIndicator.Calls()) == 2
	}, time.Second, 5*time.Millisecond)

	close(commandRunner.release)
	require.NoError(testInstance, <-runFinished)
	<-tickerStopped

	require.Equal(testInstance, 500*time.Millisecond, requestedInterval)
	require.Equal(testInstance, []string{
		testStartCallPrefixConstant + testStartedLabelConstant,
		testStartCallPrefixConstant + testStartedLabelConstant + " (3s)",
		testStopCallConstant,
	}, statusIndicator.Calls())
}

func TestServiceRunHonorsCancellation(testInstance *testing.T) {
	statusIndicator := &recordingStatusIndicator{}
	commandRunner := &stubCommandRunner{started: make(chan struct{}), release: make(chan struct{})}
	service, serviceError := runner.NewService(runner.Dependencies{Runner: commandRunner, Indicator: statusIndicator})
	require.NoError(testInstance, serviceError)

	executionContext, cancel := context.WithCancel(context.Background())
	go func() {
		<-commandRunner.started
		cancel()
	}()

	_, runError := service.Run(executionContext, runner.Options{Command: testCommand})
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Equal(testInstance, []string{testStartCallPrefixConstant + testStartedLabelConstant, testStopCallConstant}, statusIndicator.Calls())
}
