package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"king/internal/domain"
	"king/internal/services/grades"
)

// LoginFailedMessage is the only feedback given for a failed login.
const LoginFailedMessage = "Username or password is wrong!"

var (
	errQuit   = errors.New("quit")
	errLogout = errors.New("logout")
)

// PasswordReader reads a password without echoing it.
type PasswordReader func() (string, error)

// Console is one interactive session over in and out.
type Console struct {
	in           *bufio.Reader
	out          io.Writer
	auth         domain.AuthService
	grades       *grades.Service
	readPassword PasswordReader
}

// New returns a Console. When readPassword is nil, passwords are read as
// ordinary input lines.
func New(
	in io.Reader,
	out io.Writer,
	auth domain.AuthService,
	gradeSvc *grades.Service,
	readPassword PasswordReader,
) *Console {
	c := &Console{
		in:     bufio.NewReader(in),
		out:    out,
		auth:   auth,
		grades: gradeSvc,
	}
	if readPassword == nil {
		readPassword = c.readLine
	}
	c.readPassword = readPassword
	return c
}

// Run loops over login and menus until the operator quits or input ends.
// Both return nil; the caller then saves the store.
func (c *Console) Run() error {
	c.println("Welcome to KING: KING Is Not GAPS")
	for {
		role, user, err := c.login()
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, errQuit):
			return nil
		case errors.Is(err, domain.ErrAuthFailed):
			c.println(LoginFailedMessage)
			continue
		case err != nil:
			return err
		}

		err = c.menu(role, user)
		switch {
		case errors.Is(err, errLogout):
			continue
		case errors.Is(err, io.EOF), errors.Is(err, errQuit):
			return nil
		default:
			return err
		}
	}
}

func (c *Console) login() (domain.Role, domain.Username, error) {
	var role domain.Role
	for {
		c.print("Are you a teacher or a student ? t/s: ")
		line, err := c.readLine()
		if err != nil {
			return 0, "", err
		}
		if role, err = domain.ParseRole(line); err == nil {
			break
		}
	}
	c.println("Enter your username:")
	name, err := c.readLine()
	if err != nil {
		return 0, "", err
	}
	c.println("Enter your password:")
	pass, err := c.readPassword()
	if err != nil {
		return 0, "", err
	}

	user := domain.Username(name)
	if err := c.auth.Authenticate(role, user, pass); err != nil {
		return 0, "", err
	}
	return role, user, nil
}

func (c *Console) menu(role domain.Role, user domain.Username) error {
	for {
		var err error
		if role == domain.RoleTeacher {
			err = c.teacherAction()
		} else {
			err = c.studentAction(user)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) studentAction(user domain.Username) error {
	c.println("*****\n1: See your grades\n2: Logout\n0: Quit")
	choice, err := c.choice(2)
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		c.showGrades(user)
		return nil
	case 2:
		return errLogout
	default:
		return errQuit
	}
}

func (c *Console) teacherAction() error {
	c.println("*****\n1: See grades of student\n2: Enter grades\n3: Logout\n0: Quit")
	choice, err := c.choice(3)
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		c.println("Enter the name of the user of which you want to see the grades:")
		name, err := c.readLine()
		if err != nil {
			return err
		}
		c.showGrades(domain.Username(name))
		return nil
	case 2:
		return c.enterGrade()
	case 3:
		return errLogout
	default:
		return errQuit
	}
}

// choice prompts until a number in [0, highest] is entered.
func (c *Console) choice(highest int) (int, error) {
	for {
		c.print("Enter Your choice: ")
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 0 && n <= highest {
			return n, nil
		}
	}
}

func (c *Console) showGrades(user domain.Username) {
	g, err := c.grades.Grades(user)
	if err != nil {
		c.println("User not in system")
		return
	}
	c.printf("Here are the grades of user %s\n", user)
	c.printf("%v\n", g)
	if avg, ok := grades.Average(g); ok {
		c.printf("The average is %g\n", avg)
	} else {
		c.println("No grades yet")
	}
}

func (c *Console) enterGrade() error {
	c.println("What is the name of the student?")
	name, err := c.readLine()
	if err != nil {
		return err
	}
	b := c.grades.Bounds()
	var grade float64
	for {
		c.println("What is the new grade of the student?")
		line, err := c.readLine()
		if err != nil {
			return err
		}
		grade, err = strconv.ParseFloat(line, 64)
		if err == nil && b.Contains(grade) {
			break
		}
		c.printf("Grade must be a number between %g and %g\n", b.Min, b.Max)
	}

	err = c.grades.RecordGrade(domain.Username(name), grade)
	if errors.Is(err, domain.ErrNotFound) {
		c.println("user does not exist")
		return nil
	}
	if err != nil {
		klog.ErrorS(err, "Recording grade failed", "student", name)
		c.println(err.Error())
	}
	return nil
}

// readLine returns the next input line without its line ending. A final line
// without a newline is returned; io.EOF is returned only when nothing is left.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) print(s string)                    { fmt.Fprint(c.out, s) }
func (c *Console) println(s string)                  { fmt.Fprintln(c.out, s) }
func (c *Console) printf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
