package extract_test

import (
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/extract"
)

const pySample = `import re

MAX_ATTEMPTS = 5

# Checks address syntax before signup.
def validate_email(addr) -> bool:
    return bool(re.match(PATTERN, addr))

async def create_session(user, ttl=3600):
    raise NotImplementedError

def _internal():
    return 1

class AuthService(BaseService):
    def login(self, email, password):
        return self.store.check(email, password)

    def logout(self):
        pass

    def __repr__(self):
        return "AuthService"
`

func TestExtractPython_Functions(t *testing.T) {
	facts := extract.Extract("api/auth.py", []byte(pySample))

	byName := map[string]int{}
	for i, fn := range facts.Functions {
		byName[fn.Name] = i
	}

	ve := facts.Functions[byName["validate_email"]]
	if !ve.IsExported || ve.IsStub || ve.IsAsync {
		t.Errorf("validate_email flags = %+v", ve)
	}
	if ve.ReturnType != "bool" {
		t.Errorf("validate_email return = %q", ve.ReturnType)
	}
	if ve.DocComment == "" {
		t.Error("validate_email doc comment missing")
	}

	cs := facts.Functions[byName["create_session"]]
	if !cs.IsAsync || !cs.IsStub {
		t.Errorf("create_session flags = %+v, want async stub", cs)
	}

	internal := facts.Functions[byName["_internal"]]
	if internal.IsExported {
		t.Error("_internal should not be exported")
	}

	logout := facts.Functions[byName["logout"]]
	if logout.IsExported {
		t.Error("methods are not module-level exports")
	}
	if !logout.IsStub {
		t.Error("logout body is pass and should be a stub")
	}

	login := facts.Functions[byName["login"]]
	if len(login.Params) != 2 {
		t.Errorf("login params = %v, want self stripped", login.Params)
	}
}

func TestExtractPython_Classes(t *testing.T) {
	facts := extract.Extract("api/auth.py", []byte(pySample))

	if len(facts.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(facts.Classes))
	}
	auth := facts.Classes[0]
	if auth.Name != "AuthService" || !auth.IsExported {
		t.Errorf("class = %+v", auth)
	}
	if len(auth.BaseTypes) != 1 || auth.BaseTypes[0] != "BaseService" {
		t.Errorf("bases = %v", auth.BaseTypes)
	}
	// Dunder methods are skipped.
	if len(auth.Members) != 2 {
		t.Errorf("members = %v, want login and logout", auth.Members)
	}

	if len(facts.Exports) != 1 || facts.Exports[0].SymbolName != "MAX_ATTEMPTS" {
		t.Errorf("exports = %+v", facts.Exports)
	}
}
