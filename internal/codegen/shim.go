package codegen

// The three runtime shim variants below are grounded on
// original_source/src/codegen/target.rs's standard_runtime_code,
// wasm_runtime_code, and embedded_runtime_code: UTF-8 validation and
// normalization, println/print/read_line, time-now-ms, and the
// stringify-for-interpolation helpers the generated C calls into.
// Trimmed to the calls OtterLang's lowering actually emits (print,
// string concatenation, interpolation stringification, spawn/await's
// clock use) rather than carrying every builtin the original exposes.

const standardShimSource = `
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <sys/time.h>
#include <stdint.h>
#include <stdbool.h>

void otter_std_io_println(const char* message) {
    if (!message) { printf("\n"); return; }
    printf("%s\n", message);
}

void otter_std_io_print(const char* message) {
    if (!message) return;
    printf("%s", message);
    fflush(stdout);
}

int64_t otter_std_time_now_ms(void) {
    struct timeval tv;
    gettimeofday(&tv, NULL);
    return (int64_t)tv.tv_sec * 1000 + tv.tv_usec / 1000;
}

char* otter_stringify_int(int64_t value) {
    char* buffer = (char*)malloc(32);
    if (buffer) snprintf(buffer, 32, "%lld", (long long)value);
    return buffer;
}

char* otter_stringify_float(double value) {
    char* buffer = (char*)malloc(64);
    if (buffer) snprintf(buffer, 64, "%g", value);
    return buffer;
}

char* otter_stringify_bool(int value) {
    const char* s = value ? "true" : "false";
    char* buffer = (char*)malloc(strlen(s) + 1);
    if (buffer) strcpy(buffer, s);
    return buffer;
}

char* otter_concat_strings(const char* a, const char* b) {
    if (!a || !b) return NULL;
    size_t la = strlen(a), lb = strlen(b);
    char* out = (char*)malloc(la + lb + 1);
    if (out) { memcpy(out, a, la); memcpy(out + la, b, lb + 1); }
    return out;
}

int64_t otter_checked_div(int64_t a, int64_t b) {
    if (b == 0) {
        fprintf(stderr, "RT002: division by zero\n");
        abort();
    }
    return a / b;
}

int64_t otter_checked_mod(int64_t a, int64_t b) {
    if (b == 0) {
        fprintf(stderr, "RT002: division by zero\n");
        abort();
    }
    return a % b;
}
`

const wasmShimSource = `
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

#ifdef __wasi__
#include <wasi/api.h>
#endif

static void otter_wasi_write(const char* s, size_t len) {
#ifdef __wasi__
    __wasi_ciovec_t iov = { .buf = (const uint8_t*)s, .buf_len = len };
    size_t written;
    __wasi_fd_write(1, &iov, 1, &written);
#else
    (void)s; (void)len;
#endif
}

void otter_std_io_println(const char* message) {
    if (message) otter_wasi_write(message, strlen(message));
    otter_wasi_write("\n", 1);
}

void otter_std_io_print(const char* message) {
    if (message) otter_wasi_write(message, strlen(message));
}

int64_t otter_std_time_now_ms(void) {
#ifdef __wasi__
    __wasi_timestamp_t ts;
    __wasi_clock_time_get(__wasi_clockid_t_CLOCK_REALTIME, 1000000, &ts);
    return (int64_t)(ts / 1000000);
#else
    return 0;
#endif
}

char* otter_stringify_int(int64_t value) {
    char* buffer = (char*)malloc(32);
    if (buffer) snprintf(buffer, 32, "%lld", (long long)value);
    return buffer;
}

char* otter_stringify_float(double value) {
    char* buffer = (char*)malloc(64);
    if (buffer) snprintf(buffer, 64, "%g", value);
    return buffer;
}

char* otter_stringify_bool(int value) {
    const char* s = value ? "true" : "false";
    char* buffer = (char*)malloc(strlen(s) + 1);
    if (buffer) strcpy(buffer, s);
    return buffer;
}

char* otter_concat_strings(const char* a, const char* b) {
    if (!a || !b) return NULL;
    size_t la = strlen(a), lb = strlen(b);
    char* out = (char*)malloc(la + lb + 1);
    if (out) { memcpy(out, a, la); memcpy(out + la, b, lb + 1); }
    return out;
}

int64_t otter_checked_div(int64_t a, int64_t b) {
    if (b == 0) {
        static const char* msg = "RT002: division by zero\n";
        otter_wasi_write(msg, strlen(msg));
        abort();
    }
    return a / b;
}

int64_t otter_checked_mod(int64_t a, int64_t b) {
    if (b == 0) {
        static const char* msg = "RT002: division by zero\n";
        otter_wasi_write(msg, strlen(msg));
        abort();
    }
    return a % b;
}
`

const embeddedShimSource = `
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

// No stdio, no system calls; the host project supplies these via its
// own hardware shims (UART, RTC, ...) by providing strong symbols that
// override the weak stubs below at link time.

__attribute__((weak)) void otter_std_io_print(const char* message) { (void)message; }
__attribute__((weak)) void otter_std_io_println(const char* message) { (void)message; }
__attribute__((weak)) int64_t otter_std_time_now_ms(void) { return 0; }

char* otter_stringify_int(int64_t value) {
    char* buffer = (char*)malloc(32);
    if (buffer) snprintf(buffer, 32, "%lld", (long long)value);
    return buffer;
}

char* otter_stringify_bool(int value) {
    const char* s = value ? "true" : "false";
    char* buffer = (char*)malloc(strlen(s) + 1);
    if (buffer) strcpy(buffer, s);
    return buffer;
}

char* otter_concat_strings(const char* a, const char* b) {
    if (!a || !b) return NULL;
    size_t la = strlen(a), lb = strlen(b);
    char* out = (char*)malloc(la + lb + 1);
    if (out) { memcpy(out, a, la); memcpy(out + la, b, lb + 1); }
    return out;
}

int64_t otter_checked_div(int64_t a, int64_t b) {
    if (b == 0) {
        otter_std_io_println("RT002: division by zero");
        abort();
    }
    return a / b;
}

int64_t otter_checked_mod(int64_t a, int64_t b) {
    if (b == 0) {
        otter_std_io_println("RT002: division by zero");
        abort();
    }
    return a % b;
}
`
